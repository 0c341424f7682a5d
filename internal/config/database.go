// internal/config/database.go
package config

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo/options"
)

func (d *DatabaseConfig) ClientOptions() *options.ClientOptions {
	return options.Client().
		ApplyURI(d.URI).
		SetMaxPoolSize(uint64(d.MaxPoolSize)).
		SetMinPoolSize(uint64(d.MinPoolSize)).
		SetConnectTimeout(time.Duration(d.ConnectTimeout) * time.Second)
}

func (d *DatabaseConfig) OperationDeadline() time.Duration {
	return time.Duration(d.OperationTimeout) * time.Second
}
