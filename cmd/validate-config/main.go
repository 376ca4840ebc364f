package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/ojosproject/iris-store/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("no .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("configuration ok")
	fmt.Printf("  server addr: %s\n", cfg.Server.Addr)
	fmt.Printf("  db backend:  %s\n", cfg.DB.Backend)
	if cfg.DB.Backend == "postgres" {
		fmt.Printf("  db host:     %s:%s\n", cfg.DB.Host, cfg.DB.Port)
		fmt.Printf("  db user:     %s\n", cfg.DB.User)
		fmt.Printf("  db password: %s\n", maskSecret(cfg.DB.Password))
		fmt.Printf("  db name:     %s\n", cfg.DB.DBName)
	} else {
		fmt.Printf("  db path:     %s\n", cfg.DB.Path)
	}
	fmt.Printf("  log level:   %v\n", cfg.Logger.Level)
	fmt.Printf("  log output:  %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  log format:  %s\n", cfg.Logger.Format)
}

func maskSecret(secret string) string {
	if secret == "" {
		return "<not set>"
	}
	if len(secret) <= 4 {
		return "***"
	}
	return secret[:2] + "..." + secret[len(secret)-2:]
}
