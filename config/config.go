package config

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv 读取 .env（部署环境直接用真实环境变量，没有 .env 也不报错）
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}
}
