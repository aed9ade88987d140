// Package email envía los correos transaccionales del servicio.
//
// Sender tiene dos implementaciones: SMTPSender (go-mail) para entornos
// reales y LogSender para desarrollo, que escribe el mensaje en el log en
// lugar de enviarlo. Las plantillas de reset viven embebidas en el binario.
package email
