// Package logger expone un logger Zap de proceso con scoping por contexto.
//
// Se inicializa una sola vez desde cmd/ con Init() y cada request recibe un
// logger "scoped" (request_id, method, path, user_id) vía ToContext/From.
// Los services nunca crean loggers propios: piden el del contexto y le
// agregan layer/component/op.
//
// Uso:
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
//	defer logger.Sync()
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Login"))
//	log.Info("login succeeded", logger.UserID(u.ID))
package logger
