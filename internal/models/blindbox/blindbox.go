package blindbox

import (
	"time"

	"github.com/google/uuid"
)

type Series struct {
	SeriesID    uuid.UUID `json:"series_id" db:"series_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	CostPoints  int       `json:"cost_points" db:"cost_points"`
}

type Rarity string

const RarityCommon Rarity = "common"
const RarityRare Rarity = "rare"
const RaritySecret Rarity = "secret"

type Figure struct {
	FigureID uuid.UUID `json:"figure_id" db:"figure_id"`
	SeriesID uuid.UUID `json:"series_id" db:"series_id"`
	Name     string    `json:"name" db:"name"`
	Rarity   Rarity    `json:"rarity" db:"rarity"`
	ImageURL string    `json:"image_url,omitempty" db:"image_url"`
}

type Purchase struct {
	PurchaseID  uuid.UUID `json:"purchase_id" db:"purchase_id"`
	UserID      string    `json:"user_id" db:"user_id"`
	FigureID    uuid.UUID `json:"figure_id" db:"figure_id"`
	PurchasedAt time.Time `json:"purchased_at" db:"purchased_at"`
}
