// Package repository define los contratos de persistencia del dominio.
//
// Son interfaces independientes del almacenamiento: internal/store/memory
// las implementa en proceso y internal/store/pg sobre PostgreSQL.
//
// Convenciones:
//   - Context siempre es el primer parámetro
//   - ErrNotFound / ErrConflict son los únicos errores "de negocio" que
//     devuelve un store; los services los traducen a internal/domain/errs
//   - Los incrementos de token_version son atómicos en el store, nunca
//     read-modify-write en la aplicación
package repository
