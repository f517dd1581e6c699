package application

import "log/slog"

const ModuleName = "issue-tracking/project-service"

func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
