// issue-token выпускает токен доступа для AUTH_MODE=jwt. Нужен для локальной разработки и smoke-тестов.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/ignatzorin/expertnet-backend/internal/config"
	"github.com/ignatzorin/expertnet-backend/internal/models"
	"github.com/ignatzorin/expertnet-backend/internal/service"
)

func main() {
	userID := flag.String("user", "", "идентификатор пользователя (sub)")
	email := flag.String("email", "", "email пользователя")
	name := flag.String("name", "", "имя пользователя")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("issue-token: ошибка загрузки конфигурации: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatalf("issue-token: JWT_SECRET не задан")
	}

	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	token, err := tokens.Issue(models.Identity{UserID: *userID, Email: *email, Name: *name})
	if err != nil {
		log.Fatalf("issue-token: %v", err)
	}
	fmt.Println(token)
}
