package telemetry

import (
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterOtelGorm attaches the otelgorm plugin so every SQL statement is
// traced as a child span of the active request span
func RegisterOtelGorm(db *gorm.DB, enabled bool, dbName string, logger *zap.Logger) error {
	if !enabled {
		logger.Debug("database tracing disabled, skipping otelgorm registration")
		return nil
	}
	if err := db.Use(otelgorm.NewPlugin(otelgorm.WithDBName(dbName))); err != nil {
		return err
	}
	logger.Info("database tracing enabled", zap.String("db_name", dbName))
	return nil
}
