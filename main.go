package main

import (
	"opscal/core/logger"
	"opscal/core/server"
)

// @title OpsCal API
// @version 1.0
// @description Scheduling backend: calendars, recurring events, occurrences and business terminology.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
	}
}
