package mongodb

import (
	"time"

	"github.com/mauv0809/card-swap/internal/card"
	"github.com/mauv0809/card-swap/internal/trade"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	usersCollection    = "users"
	offersCollection   = "offers"
	searchesCollection = "searches"
	setsCollection     = "card_sets"
	cardsCollection    = "cards"
)

func collection(kind trade.Kind) string {
	if kind == trade.KindOffer {
		return offersCollection
	}
	return searchesCollection
}

type userDoc struct {
	ID          string    `bson:"_id"`
	Handle      string    `bson:"handle"`
	DisplayName string    `bson:"display_name"`
	LastActive  time.Time `bson:"last_active"`
}

func (d userDoc) toUser() trade.User {
	return trade.User{
		ID:          d.ID,
		Handle:      d.Handle,
		DisplayName: d.DisplayName,
		LastActive:  d.LastActive,
	}
}

// listingDoc is stored in both the offers and the searches collection. Owner is
// only populated by the $lookup stage of an aggregation.
type listingDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	UserID      string             `bson:"user_id"`
	CardName    string             `bson:"card_name"`
	DisplayName string             `bson:"display_name"`
	Rarity      string             `bson:"rarity"`
	CreatedAt   time.Time          `bson:"created_at"`
	Owner       []userDoc          `bson:"owner,omitempty"`
}

func (d listingDoc) toListing(kind trade.Kind) trade.Listing {
	return trade.Listing{
		ID:          d.ID.Hex(),
		Kind:        kind,
		UserID:      d.UserID,
		CardName:    d.CardName,
		DisplayName: d.DisplayName,
		Rarity:      card.Rarity(d.Rarity),
		CreatedAt:   d.CreatedAt,
	}
}

// toOwned falls back to an owner that only carries the id when the user
// document is missing.
func (d listingDoc) toOwned(kind trade.Kind) trade.OwnedListing {
	owner := trade.User{ID: d.UserID}
	if len(d.Owner) > 0 {
		owner = d.Owner[0].toUser()
	}
	return trade.OwnedListing{Listing: d.toListing(kind), Owner: owner}
}

// searchMatchDoc is one search joined with one matching offer.
type searchMatchDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	DisplayName string             `bson:"display_name"`
	Rarity      string             `bson:"rarity"`
	Offer       listingDoc         `bson:"offer"`
}

func (d searchMatchDoc) toUserMatch() trade.UserMatch {
	offer := d.Offer.toOwned(trade.KindOffer)
	return trade.UserMatch{
		SearchID:           d.ID.Hex(),
		OfferID:            offer.ID,
		CardName:           d.DisplayName,
		Rarity:             card.Rarity(d.Rarity),
		CounterpartyID:     offer.UserID,
		CounterpartyHandle: offer.Owner.ContactHandle(),
	}
}

type cardSetDoc struct {
	Code string `bson:"_id"`
	Name string `bson:"name"`
}

type cardDoc struct {
	ID         primitive.ObjectID `bson:"_id"`
	SetCode    string             `bson:"set_code"`
	CardName   string             `bson:"card_name"`
	Rarity     string             `bson:"rarity"`
	RarityIcon string             `bson:"rarity_icon"`
}

func (d cardDoc) toDefinition() trade.CardDefinition {
	return trade.CardDefinition{
		ID:         d.ID.Hex(),
		SetCode:    d.SetCode,
		CardName:   d.CardName,
		Rarity:     card.Rarity(d.Rarity),
		RarityIcon: d.RarityIcon,
	}
}
