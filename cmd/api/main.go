package main

import (
	"context"
	"log"

	"SkillSwap/internal/config"
	"SkillSwap/internal/model"
	"SkillSwap/internal/pkg"
	"SkillSwap/internal/repository/mysql"
	"SkillSwap/internal/repository/redis"
	"SkillSwap/internal/router"
	"SkillSwap/internal/service"
)

func main() {
	cfg := config.Load()
	pkg.SetSecrets(cfg.AccessSecret, cfg.RefreshSecret)

	if err := mysql.InitDB(cfg.DSN); err != nil {
		panic(err)
	}
	if err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		panic(err)
	}
	defer redis.Close()

	if err := mysql.DB.AutoMigrate(
		&model.User{},
		&model.Skill{},
		&model.SkillRequest{},
		&model.Review{},
		&model.Message{},
		&model.MessageRequest{},
		&model.UserBlock{},
		&model.Meeting{},
		&model.MeetingParticipant{},
		&model.Notification{},
		&model.NotificationOutbox{},
		&model.Report{},
	); err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Outbox events go to Kafka; fall back to log output when no broker is
	// configured.
	sender := service.Sender(service.LogSender)
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.Brokers[0] != "" {
		producer, err := pkg.NewKafkaProducer(cfg.Kafka)
		if err != nil {
			panic(err)
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}
	go service.NewOutboxRelayer(mysql.DB, sender).Run(ctx)
	go service.NewRetentionWorker(mysql.DB).Run(ctx)

	r := router.InitRouter(mysql.DB, cfg)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
