package domain

import (
	"errors"
	"time"
)

var ErrReviewNotFound = errors.New("review not found")

type Review struct {
	ID        string
	ProductID string
	Email     string
	Rating    int // 1..5
	Comment   string
	CreatedAt time.Time
}
