package history

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tyemirov/pushover/pkg/pushover"
	"gorm.io/gorm"
)

const errorSeparator = "\n"

// Delivery is the recorded outcome of one message submission.
type Delivery struct {
	ID         uint      `json:"-" gorm:"primaryKey"`
	DeliveryID string    `json:"delivery_id" gorm:"uniqueIndex"`
	StatusCode int       `json:"status_code"`
	Success    bool      `json:"success"`
	RequestID  string    `json:"request_id"`
	Receipt    string    `json:"receipt,omitempty"`
	Title      string    `json:"title,omitempty"`
	Device     string    `json:"device,omitempty"`
	Priority   int       `json:"priority"`
	Errors     string    `json:"errors,omitempty"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

// NewDelivery builds a ready-to-insert Delivery. Credentials and the message
// body are not stored.
func NewDelivery(message pushover.Message, result pushover.Result) Delivery {
	return Delivery{
		DeliveryID: uuid.NewString(),
		StatusCode: result.StatusCode,
		Success:    result.Success,
		RequestID:  result.Request,
		Receipt:    result.Receipt,
		Title:      message.Title,
		Device:     message.Device,
		Priority:   int(message.PriorityValue()),
		Errors:     strings.Join(result.Errors, errorSeparator),
		CreatedAt:  time.Now().UTC(),
	}
}

// ErrorLines splits the stored error text back into lines.
func (delivery Delivery) ErrorLines() []string {
	if delivery.Errors == "" {
		return nil
	}
	return strings.Split(delivery.Errors, errorSeparator)
}

func CreateDelivery(ctx context.Context, db *gorm.DB, delivery *Delivery) error {
	return db.WithContext(ctx).Create(delivery).Error
}

// ListRecentDeliveries returns up to limit deliveries, newest first.
func ListRecentDeliveries(ctx context.Context, db *gorm.DB, limit int) ([]Delivery, error) {
	var deliveries []Delivery
	err := db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&deliveries).Error
	if err != nil {
		return nil, err
	}
	return deliveries, nil
}
