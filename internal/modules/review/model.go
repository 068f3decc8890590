package review

import (
	"time"

	"github.com/google/uuid"
)

// Review is a buyer's one-per-product verdict. The (user, product) pair
// is unique, enforced at write time.
type Review struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	UserID      uuid.UUID `json:"user_id"`
	Rating      int       `json:"rating"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
