package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mizuki-dev/GiftMarche/app/models"
	"github.com/mizuki-dev/GiftMarche/internal/pkg/cache"
	"github.com/mizuki-dev/GiftMarche/internal/pkg/database"
	"github.com/mizuki-dev/GiftMarche/internal/pkg/env"
	"github.com/mizuki-dev/GiftMarche/internal/pkg/payment"
)

// The fulfillment worker consumes the per-kind queues fed by the webhook
// pipeline and marks the paid orders ready for fulfillment.
func main() {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queues := []string{
		payment.QueueKey(models.OrderKindProduct),
		payment.QueueKey(models.OrderKindInStore),
		payment.QueueKey(models.OrderKindExperience),
	}

	log.Printf("Fulfillment worker consuming %v", queues)
	for {
		select {
		case <-ctx.Done():
			log.Println("Fulfillment worker stopping")
			return
		default:
		}

		res, err := cache.GetClient().BRPop(ctx, 5*time.Second, queues...).Result()
		if err != nil {
			// Timeout between tasks is the normal idle path.
			continue
		}
		// BRPop returns [queue, value].
		if len(res) != 2 {
			continue
		}

		var task payment.FulfillmentTask
		if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
			log.Printf("Dropping malformed fulfillment task: %v", err)
			continue
		}
		if err := fulfill(&task); err != nil {
			log.Printf("Fulfilling intent %s failed: %v", task.PaymentIntentID, err)
		}
	}
}

func fulfill(task *payment.FulfillmentTask) error {
	db := database.GetDB()

	switch task.OrderKind {
	case models.OrderKindInStore:
		return db.Model(&models.InStoreOrder{}).
			Where("payment_intent_id = ?", task.PaymentIntentID).
			Update("status", models.OrderStatusPaid).Error
	case models.OrderKindExperience:
		return db.Model(&models.ExperienceOrder{}).
			Where("payment_intent_id = ?", task.PaymentIntentID).
			Update("status", models.OrderStatusPaid).Error
	default:
		return db.Model(&models.ProductOrder{}).
			Where("payment_intent_id = ?", task.PaymentIntentID).
			Update("status", models.OrderStatusPaid).Error
	}
}
