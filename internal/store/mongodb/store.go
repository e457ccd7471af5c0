package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/card-swap/internal/card"
	"github.com/mauv0809/card-swap/internal/trade"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// store implements trade.Store on MongoDB. Paired deletes use multi-document
// transactions, so the server must run as a replica set.
type store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client for uri, verifies it and prepares the indexes.
func Connect(ctx context.Context, uri, database string) (trade.Store, error) {
	log.Info("Connecting to MongoDB", "database", database)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := New(client, database)
	if err := ensureIndexes(ctx, client.Database(database)); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// New wraps an existing client.
func New(client *mongo.Client, database string) trade.Store {
	return &store{
		client: client,
		db:     client.Database(database),
	}
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	listingIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "card_name", Value: 1}, {Key: "rarity", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	for _, name := range []string{offersCollection, searchesCollection} {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, listingIndexes); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}

	_, err := db.Collection(cardsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "set_code", Value: 1}, {Key: "card_name", Value: 1}, {Key: "rarity", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes on %s: %w", cardsCollection, err)
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, trade.ErrStorageUnavailable, err)
}

func ownerLookup() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: usersCollection},
		{Key: "localField", Value: "user_id"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "owner"},
	}}}
}

var oldestFirst = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

func (s *store) UpsertUser(ctx context.Context, user trade.User) error {
	_, err := s.db.Collection(usersCollection).UpdateOne(ctx,
		bson.D{{Key: "_id", Value: user.ID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "handle", Value: user.Handle},
			{Key: "display_name", Value: user.DisplayName},
			{Key: "last_active", Value: time.Now().UTC()},
		}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return unavailable("upsert user", err)
	}
	return nil
}

func (s *store) GetUser(ctx context.Context, id string) (*trade.User, error) {
	var doc userDoc
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("get user %s: %w", id, trade.ErrRecordNotFound)
	}
	if err != nil {
		return nil, unavailable("get user", err)
	}
	user := doc.toUser()
	return &user, nil
}

func (s *store) CreateListing(ctx context.Context, kind trade.Kind, userID, cardName string, rarity card.Rarity) (string, error) {
	doc := listingDoc{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		CardName:    strings.ToLower(cardName),
		DisplayName: cardName,
		Rarity:      string(rarity),
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.db.Collection(collection(kind)).InsertOne(ctx, doc); err != nil {
		return "", unavailable("create "+string(kind), err)
	}

	log.Debug("Created listing", "kind", kind, "id", doc.ID.Hex(), "user", userID, "card", cardName, "rarity", rarity)
	return doc.ID.Hex(), nil
}

func (s *store) ListByOwner(ctx context.Context, kind trade.Kind, userID string) ([]trade.Listing, error) {
	cursor, err := s.db.Collection(collection(kind)).Find(ctx,
		bson.D{{Key: "user_id", Value: userID}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
	)
	if err != nil {
		return nil, unavailable("list "+string(kind)+"s", err)
	}
	var docs []listingDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, unavailable("decode "+string(kind)+"s", err)
	}

	listings := make([]trade.Listing, 0, len(docs))
	for _, d := range docs {
		listings = append(listings, d.toListing(kind))
	}
	return listings, nil
}

func (s *store) FindByKey(ctx context.Context, kind trade.Kind, cardName string, rarity card.Rarity) ([]trade.OwnedListing, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "card_name", Value: strings.ToLower(cardName)},
			{Key: "rarity", Value: string(rarity)},
		}}},
		{{Key: "$sort", Value: oldestFirst}},
		ownerLookup(),
	}
	return s.aggregateOwned(ctx, kind, pipeline)
}

func (s *store) aggregateOwned(ctx context.Context, kind trade.Kind, pipeline mongo.Pipeline) ([]trade.OwnedListing, error) {
	cursor, err := s.db.Collection(collection(kind)).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, unavailable("find "+string(kind)+"s", err)
	}
	var docs []listingDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, unavailable("decode "+string(kind)+"s", err)
	}

	listings := make([]trade.OwnedListing, 0, len(docs))
	for _, d := range docs {
		listings = append(listings, d.toOwned(kind))
	}
	return listings, nil
}

// FindUserMatches joins the user's searches with the offers collection in one
// aggregation, newest search first and oldest offer first within a search.
func (s *store) FindUserMatches(ctx context.Context, userID string) ([]trade.UserMatch, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "user_id", Value: userID}}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: offersCollection},
			{Key: "let", Value: bson.D{{Key: "name", Value: "$card_name"}, {Key: "rarity", Value: "$rarity"}}},
			{Key: "pipeline", Value: mongo.Pipeline{
				{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$and", Value: bson.A{
					bson.D{{Key: "$eq", Value: bson.A{"$card_name", "$$name"}}},
					bson.D{{Key: "$eq", Value: bson.A{"$rarity", "$$rarity"}}},
				}}}}}}},
				{{Key: "$sort", Value: oldestFirst}},
				ownerLookup(),
			}},
			{Key: "as", Value: "offer"},
		}}},
		{{Key: "$unwind", Value: "$offer"}},
	}

	cursor, err := s.db.Collection(searchesCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, unavailable("find user matches", err)
	}
	var docs []searchMatchDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, unavailable("decode user matches", err)
	}

	matches := make([]trade.UserMatch, 0, len(docs))
	for _, d := range docs {
		matches = append(matches, d.toUserMatch())
	}
	return matches, nil
}

// DeletePair removes both documents in one transaction. Ids that are not valid
// ObjectIDs can never exist and are reported as not found.
func (s *store) DeletePair(ctx context.Context, searchID, offerID string) error {
	searchOID, err := primitive.ObjectIDFromHex(searchID)
	if err != nil {
		return fmt.Errorf("delete pair: search %s: %w", searchID, trade.ErrRecordNotFound)
	}
	offerOID, err := primitive.ObjectIDFromHex(offerID)
	if err != nil {
		return fmt.Errorf("delete pair: offer %s: %w", offerID, trade.ErrRecordNotFound)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return unavailable("start session", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, target := range []struct {
			coll, label string
			id          primitive.ObjectID
		}{
			{searchesCollection, "search", searchOID},
			{offersCollection, "offer", offerOID},
		} {
			res, err := s.db.Collection(target.coll).DeleteOne(sc, bson.D{{Key: "_id", Value: target.id}})
			if err != nil {
				return nil, err
			}
			if res.DeletedCount == 0 {
				return nil, fmt.Errorf("%s %s: %w", target.label, target.id.Hex(), trade.ErrRecordNotFound)
			}
		}
		return nil, nil
	})
	if errors.Is(err, trade.ErrRecordNotFound) {
		return fmt.Errorf("delete pair: %w", err)
	}
	if err != nil {
		return unavailable("delete pair", err)
	}
	return nil
}

func (s *store) ListAllOffersGrouped(ctx context.Context) ([]trade.CardListing, error) {
	offers, err := s.aggregateOwned(ctx, trade.KindOffer, mongo.Pipeline{
		{{Key: "$sort", Value: oldestFirst}},
		ownerLookup(),
	})
	if err != nil {
		return nil, err
	}
	return trade.GroupOffers(offers), nil
}

func (s *store) UpsertCardSet(ctx context.Context, set trade.CardSet) error {
	_, err := s.db.Collection(setsCollection).UpdateOne(ctx,
		bson.D{{Key: "_id", Value: set.Code}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "name", Value: set.Name}}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return unavailable("upsert card set", err)
	}
	return nil
}

func (s *store) UpsertCardDefinition(ctx context.Context, def trade.CardDefinition) error {
	_, err := s.db.Collection(cardsCollection).UpdateOne(ctx,
		bson.D{
			{Key: "set_code", Value: def.SetCode},
			{Key: "card_name", Value: def.CardName},
			{Key: "rarity", Value: string(def.Rarity)},
		},
		bson.D{{Key: "$set", Value: bson.D{{Key: "rarity_icon", Value: def.RarityIcon}}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return unavailable("upsert card", err)
	}
	return nil
}

func (s *store) ListCardSets(ctx context.Context) ([]trade.CardSet, error) {
	cursor, err := s.db.Collection(setsCollection).Find(ctx, bson.D{},
		options.Find().
			SetSort(bson.D{{Key: "name", Value: 1}}).
			SetCollation(&options.Collation{Locale: "en", Strength: 2}),
	)
	if err != nil {
		return nil, unavailable("list card sets", err)
	}
	var docs []cardSetDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, unavailable("decode card sets", err)
	}

	sets := make([]trade.CardSet, 0, len(docs))
	for _, d := range docs {
		sets = append(sets, trade.CardSet{Code: d.Code, Name: d.Name})
	}
	return sets, nil
}

func (s *store) ListCardDefinitions(ctx context.Context, setCode string) ([]trade.CardDefinition, error) {
	cursor, err := s.db.Collection(cardsCollection).Find(ctx, bson.D{{Key: "set_code", Value: setCode}})
	if err != nil {
		return nil, unavailable("list cards", err)
	}
	var docs []cardDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, unavailable("decode cards", err)
	}

	defs := make([]trade.CardDefinition, 0, len(docs))
	for _, d := range docs {
		defs = append(defs, d.toDefinition())
	}
	sort.SliceStable(defs, func(i, j int) bool {
		a, b := strings.ToLower(defs[i].CardName), strings.ToLower(defs[j].CardName)
		if a != b {
			return a < b
		}
		return defs[i].Rarity.Rank() < defs[j].Rarity.Rank()
	})
	return defs, nil
}

func (s *store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
