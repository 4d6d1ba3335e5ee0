package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"rental-hub-service/internal/core/domain"
)

func favoritedListing() *domain.Listing {
	return &domain.Listing{
		ID:       uuid.New(),
		Source:   domain.SourceRental591,
		SourceID: "777",
		Title:    "中山區精緻套房",
	}
}

func TestNotifyPriceChange_FanOutPerFavoriter(t *testing.T) {
	listing := favoritedListing()
	users := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	favorites := &fakeFavorites{}
	for _, u := range users {
		favorites.interests = append(favorites.interests, domain.FavoriteInterest{UserID: u, ListingID: listing.ID})
	}
	sink := &fakeSink{}
	events := &fakeEvents{}
	uc := NewNotifyPriceChangeUseCase(favorites, sink, events)

	if err := uc.Execute(context.Background(), listing, 18000, 20000); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(sink.created) != len(users) {
		t.Fatalf("notifications created = %d, want %d", len(sink.created), len(users))
	}
	for _, n := range sink.created {
		if n.Type != domain.NotificationTypePriceChange {
			t.Errorf("notification type = %s", n.Type)
		}
		if n.Data.OldPrice != 18000 || n.Data.NewPrice != 20000 {
			t.Errorf("payload prices = (%d, %d), want (18000, 20000)", n.Data.OldPrice, n.Data.NewPrice)
		}
		if !strings.Contains(n.Content, listing.Title) {
			t.Errorf("content %q does not mention the listing title", n.Content)
		}
	}

	// Ровно одно событие в очередь на всё изменение, не по одному на получателя
	if len(events.events) != 1 {
		t.Fatalf("published events = %d, want 1", len(events.events))
	}
	if events.events[0].PropertyID != listing.ID {
		t.Errorf("event propertyId = %s, want %s", events.events[0].PropertyID, listing.ID)
	}
}

func TestNotifyPriceChange_FailedRecipientDoesNotStopFanOut(t *testing.T) {
	listing := favoritedListing()
	bad, good := uuid.New(), uuid.New()
	favorites := &fakeFavorites{interests: []domain.FavoriteInterest{
		{UserID: bad, ListingID: listing.ID},
		{UserID: good, ListingID: listing.ID},
	}}
	sink := &fakeSink{failFor: map[uuid.UUID]error{bad: errors.New("constraint violation")}}
	uc := NewNotifyPriceChangeUseCase(favorites, sink, nil)

	if err := uc.Execute(context.Background(), listing, 18000, 20000); err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if len(sink.created) != 1 || sink.created[0].UserID != good {
		t.Errorf("created = %+v, want exactly one notification for the healthy recipient", sink.created)
	}
}

func TestNotifyPriceChange_NilEventsPortSkipped(t *testing.T) {
	listing := favoritedListing()
	favorites := &fakeFavorites{interests: []domain.FavoriteInterest{{UserID: uuid.New(), ListingID: listing.ID}}}
	uc := NewNotifyPriceChangeUseCase(favorites, &fakeSink{}, nil)

	if err := uc.Execute(context.Background(), listing, 18000, 20000); err != nil {
		t.Fatalf("Execute() with nil events port error = %v", err)
	}
}

func TestNotifyPriceChange_FavoritesLookupErrorPropagates(t *testing.T) {
	listing := favoritedListing()
	favorites := &fakeFavorites{err: errors.New("connection reset")}
	uc := NewNotifyPriceChangeUseCase(favorites, &fakeSink{}, nil)

	if err := uc.Execute(context.Background(), listing, 18000, 20000); err == nil {
		t.Fatal("expected error when favorites lookup fails")
	}
}
