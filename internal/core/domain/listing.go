package domain

import (
	"time"

	"github.com/google/uuid"
)

// Статусы активности объявления. Пайплайн сам никогда не удаляет записи,
// только деактивирует их снаружи.
const (
	SourceRental591 = "RENTAL591"
	SourceRakuya    = "RAKUYA"
)

// RawListing — сырая запись, как её отдаёт extraction-сервис для одной
// карточки на странице результатов. Все поля опциональны и могут быть
// в произвольном виде (цена строкой, относительные URL и т.д.).
type RawListing struct {
	SourceID     string   `json:"sourceId"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Price        string   `json:"price"`
	Deposit      string   `json:"deposit"`
	District     string   `json:"district"`
	Address      string   `json:"address"`
	NearMRT      string   `json:"nearMRT"`
	Area         string   `json:"area"`
	RoomType     string   `json:"roomType"`
	Floor        string   `json:"floor"`
	TotalFloors  string   `json:"totalFloors"`
	Features     []string `json:"features"`
	Images       []string `json:"images"`
	ContactName  string   `json:"contactName"`
	ContactPhone string   `json:"contactPhone"`
	URL          string   `json:"url"`
}

// Listing — каноническое объявление об аренде, ключ уникальности (source, sourceId).
type Listing struct {
	ID       uuid.UUID `json:"id"`
	Source   string    `json:"source"`
	SourceID string    `json:"sourceId"`

	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       int      `json:"price"`
	Deposit     string   `json:"deposit"`
	District    string   `json:"district"`
	Address     string   `json:"address"`
	NearMRT     string   `json:"nearMRT"`
	Area        *float64 `json:"area"`
	RoomType    string   `json:"roomType"`
	Floor       string   `json:"floor"`
	TotalFloors string   `json:"totalFloors"`

	HasParking  bool `json:"hasParking"`
	HasPet      bool `json:"hasPet"`
	HasCooking  bool `json:"hasCooking"`
	HasElevator bool `json:"hasElevator"`
	HasBalcony  bool `json:"hasBalcony"`
	HasWasher   bool `json:"hasWasher"`

	ContactName  string `json:"contactName"`
	ContactPhone string `json:"contactPhone"`
	URL          string `json:"url"`

	Images   []ListingImage   `json:"images"`
	Features []ListingFeature `json:"features"`

	ViewCount  int       `json:"viewCount"`
	IsActive   bool      `json:"isActive"`
	LastSeenAt time.Time `json:"lastSeenAt"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// PriceHistory упорядочена по recordedAt; при чтении по ключу
	// хранилище гарантирует как минимум последнюю запись.
	PriceHistory []PriceHistoryEntry `json:"priceHistory,omitempty"`
}

// ListingImage — изображение объявления, порядок фиксирован источником.
type ListingImage struct {
	URL   string `json:"url"`
	Order int    `json:"order"`
}

// ListingFeature — тег особенности с производной категорией (交通, 設施, ...).
type ListingFeature struct {
	Feature  string `json:"feature"`
	Category string `json:"category"`
}

// PriceHistoryEntry — одна наблюдённая цена. История append-only.
type PriceHistoryEntry struct {
	Price      int       `json:"price"`
	RecordedAt time.Time `json:"recordedAt"`
}

// LastPrice возвращает последнюю наблюдённую цену или false, если истории нет.
func (l *Listing) LastPrice() (int, bool) {
	if len(l.PriceHistory) == 0 {
		return 0, false
	}
	return l.PriceHistory[len(l.PriceHistory)-1].Price, true
}

// UpsertResult — итог одной операции слияния.
type UpsertResult struct {
	IsNew        bool
	PriceChanged bool
	OldPrice     int
	NewPrice     int
	ListingID    uuid.UUID
}

// ListingPage — страница результатов поиска.
type ListingPage struct {
	Items []Listing
	Total int
}
