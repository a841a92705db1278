package main

import (
	_ "github.com/eleven-am/align-backend/docs"
	"github.com/eleven-am/align-backend/internal/bootstrap"
)

// @title Align Backend API
// @version 1.0.0
// @description Realtime pose coaching backend for guided yoga practice

// @host api.align.example.com
// @BasePath /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	bootstrap.Run()
}
