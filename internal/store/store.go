package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"warehouse-ops-backend/internal/fleet"
	"warehouse-ops-backend/internal/inventory"
	"warehouse-ops-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	LoadProducts(ctx context.Context) ([]inventory.Product, error)
	SaveProduct(ctx context.Context, p inventory.Product) error

	LoadBots(ctx context.Context) ([]fleet.Bot, error)
	SaveBots(ctx context.Context, changes []BotChange) error

	// Seed writes the given records only when both tables are empty and
	// reports whether it did.
	Seed(ctx context.Context, products []inventory.Product, bots []fleet.Bot) (bool, error)

	GetSetting(ctx context.Context, key string) (string, error)
	PutSetting(ctx context.Context, key, value string) error

	PutSubscription(ctx context.Context, sub Subscription) error
	GetSubscription(ctx context.Context, endpoint string) (*Subscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForBot(ctx context.Context, botID string) ([]Subscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) LoadProducts(ctx context.Context) ([]inventory.Product, error) {
	var rows []model.Product
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	products := make([]inventory.Product, len(rows))
	for i, r := range rows {
		products[i] = productFromModel(r)
	}
	return products, nil
}

func (s *gormStore) SaveProduct(ctx context.Context, p inventory.Product) error {
	row := productToModel(p)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "category", "quantity", "price", "supplier", "status", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save product %s: %w", p.ID, err)
	}
	return nil
}

func (s *gormStore) LoadBots(ctx context.Context) ([]fleet.Bot, error) {
	var rows []model.Bot
	err := s.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("id DESC") }).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load bots: %w", err)
	}
	bots := make([]fleet.Bot, len(rows))
	for i, r := range rows {
		bots[i] = botFromModel(r)
	}
	return bots, nil
}

// SaveBots upserts each changed bot and inserts its new history entries,
// oldest first, so the auto-increment id keeps chronological order.
func (s *gormStore) SaveBots(ctx context.Context, changes []BotChange) error {
	if len(changes) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ch := range changes {
			row := botToModel(ch.Bot)
			if err := upsertBot(tx, &row); err != nil {
				return fmt.Errorf("failed to save bot %s: %w", ch.Bot.ID, err)
			}
			if err := appendHistory(tx, ch.Bot, ch.Appended); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertBot(tx *gorm.DB, row *model.Bot) error {
	return tx.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "battery", "tasks_completed", "location", "current_task", "updated_at"}),
	}).Create(row).Error
}

func appendHistory(tx *gorm.DB, b fleet.Bot, n int) error {
	if n > len(b.History) {
		n = len(b.History)
	}
	if n <= 0 {
		return nil
	}
	entries := make([]model.BotHistory, 0, n)
	for i := n - 1; i >= 0; i-- {
		h := b.History[i]
		entries = append(entries, model.BotHistory{BotID: b.ID, Timestamp: h.Timestamp, Event: h.Event})
	}
	if err := tx.Create(&entries).Error; err != nil {
		return fmt.Errorf("failed to append history for bot %s: %w", b.ID, err)
	}
	return nil
}

func (s *gormStore) Seed(ctx context.Context, products []inventory.Product, bots []fleet.Bot) (bool, error) {
	seeded := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var productCount, botCount int64
		if err := tx.Model(&model.Product{}).Count(&productCount).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Bot{}).Count(&botCount).Error; err != nil {
			return err
		}
		if productCount > 0 || botCount > 0 {
			return nil
		}

		for _, p := range products {
			row := productToModel(p)
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to seed product %s: %w", p.ID, err)
			}
		}
		for _, b := range bots {
			row := botToModel(b)
			if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
				return fmt.Errorf("failed to seed bot %s: %w", b.ID, err)
			}
			if err := appendHistory(tx, b, len(b.History)); err != nil {
				return err
			}
		}
		seeded = true
		return nil
	})
	return seeded, err
}

func (s *gormStore) GetSetting(ctx context.Context, key string) (string, error) {
	var row model.Setting
	err := s.db.WithContext(ctx).First(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %q: %w", key, err)
	}
	return row.Value, nil
}

func (s *gormStore) PutSetting(ctx context.Context, key, value string) error {
	row := model.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to write setting %q: %w", key, err)
	}
	return nil
}

// PutSubscription creates or replaces a subscription and its bot filter.
// Unknown bot ids are ignored.
func (s *gormStore) PutSubscription(ctx context.Context, sub Subscription) error {
	row := model.PushSubscription{
		Endpoint:  sub.Endpoint,
		P256DH:    sub.P256DH,
		Auth:      sub.Auth,
		CreatedAt: time.Now().UTC(),
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(&row).Error; err != nil {
			return err
		}

		var bots []model.Bot
		if len(sub.BotIDs) > 0 {
			if err := tx.Find(&bots, "id IN ?", sub.BotIDs).Error; err != nil {
				return err
			}
		}
		return tx.Model(&row).Association("Bots").Replace(&bots)
	})
}

func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (*Subscription, error) {
	var row model.PushSubscription
	err := s.db.WithContext(ctx).Preload("Bots").First(&row, "endpoint = ?", endpoint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	sub := subscriptionFromModel(row)
	return &sub, nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := model.PushSubscription{Endpoint: endpoint}
		if err := tx.Model(&row).Association("Bots").Clear(); err != nil {
			return err
		}
		return tx.Delete(&row).Error
	})
}

// SubscriptionsForBot returns subscribers that listed botID plus those with
// no filter at all.
func (s *gormStore) SubscriptionsForBot(ctx context.Context, botID string) ([]Subscription, error) {
	var rows []model.PushSubscription
	err := s.db.WithContext(ctx).
		Where("endpoint IN (?)", s.db.Table("subscription_bot_mapping").
			Select("push_subscription_endpoint").Where("bot_id = ?", botID)).
		Or("endpoint NOT IN (?)", s.db.Table("subscription_bot_mapping").
			Select("push_subscription_endpoint")).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions for bot %s: %w", botID, err)
	}
	subs := make([]Subscription, len(rows))
	for i, r := range rows {
		subs[i] = subscriptionFromModel(r)
	}
	return subs, nil
}

func productToModel(p inventory.Product) model.Product {
	return model.Product{
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Quantity:  p.Quantity,
		Price:     p.Price,
		Supplier:  p.Supplier,
		Status:    string(p.Status),
		DateAdded: p.DateAdded,
	}
}

// productFromModel re-derives the status so a stale column can never leak.
func productFromModel(r model.Product) inventory.Product {
	return inventory.Product{
		ID:        r.ID,
		Name:      r.Name,
		Category:  r.Category,
		Quantity:  r.Quantity,
		Price:     r.Price,
		Supplier:  r.Supplier,
		Status:    inventory.DeriveStatus(r.Quantity),
		DateAdded: r.DateAdded,
	}
}

func botToModel(b fleet.Bot) model.Bot {
	return model.Bot{
		ID:             b.ID,
		Status:         string(b.Status),
		Battery:        b.Battery,
		TasksCompleted: b.TasksCompleted,
		Location:       b.Location,
		CurrentTask:    b.CurrentTask,
	}
}

func botFromModel(r model.Bot) fleet.Bot {
	b := fleet.Bot{
		ID:             r.ID,
		Status:         fleet.Status(r.Status),
		Battery:        r.Battery,
		TasksCompleted: r.TasksCompleted,
		Location:       r.Location,
		CurrentTask:    r.CurrentTask,
		History:        make([]fleet.HistoryEntry, len(r.History)),
	}
	for i, h := range r.History {
		b.History[i] = fleet.HistoryEntry{Timestamp: h.Timestamp.UTC(), Event: h.Event}
	}
	return b
}

func subscriptionFromModel(r model.PushSubscription) Subscription {
	sub := Subscription{
		Endpoint:  r.Endpoint,
		P256DH:    r.P256DH,
		Auth:      r.Auth,
		CreatedAt: r.CreatedAt,
		BotIDs:    make([]string, 0, len(r.Bots)),
	}
	for _, b := range r.Bots {
		sub.BotIDs = append(sub.BotIDs, b.ID)
	}
	sort.Strings(sub.BotIDs)
	return sub
}
