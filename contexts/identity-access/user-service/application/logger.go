package application

import "log/slog"

const ModuleName = "identity-access/user-service"

func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
