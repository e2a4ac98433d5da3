package services

import (
	"context"
	"strings"
	"time"

	"campgo/internal/apperr"
	"campgo/internal/domain"
	"campgo/internal/repos"

	"github.com/google/uuid"
)

// CardService stores payment cards. Card numbers are unique across all users.
type CardService struct {
	Store *repos.Store
	Clock func() time.Time
}

func NewCardService(store *repos.Store) *CardService {
	return &CardService{Store: store, Clock: time.Now}
}

type CardInput struct {
	Name      string `json:"card_name" validate:"required,max=100"`
	Number    string `json:"card_number" validate:"required,numeric,len=16"`
	ExpMonth  string `json:"card_exp_month" validate:"required,month"`
	ExpYear   string `json:"card_exp_year" validate:"required,numeric,len=2"`
	CVC       string `json:"card_cvc" validate:"required,numeric,min=3,max=4"`
	IsDefault bool   `json:"is_default"`
}

func (in CardInput) apply(c *domain.Card) {
	c.Name = strings.TrimSpace(in.Name)
	c.Number = in.Number
	c.ExpMonth = in.ExpMonth
	c.ExpYear = in.ExpYear
	c.CVC = in.CVC
}

func (s *CardService) List(ctx context.Context, userID string) ([]domain.Card, error) {
	out, err := s.Store.Cards.ListByUser(ctx, userID)
	return out, storeErr(err, "cards")
}

func (s *CardService) checkNumber(ctx context.Context, tx *repos.Store, number, exceptID string) error {
	taken, err := tx.Cards.NumberTaken(ctx, number, exceptID)
	if err != nil {
		return storeErr(err, "card")
	}
	if taken {
		return apperr.Conflict("card number already exists")
	}
	return nil
}

// Create adds a card. The user's first card always becomes the default.
func (s *CardService) Create(ctx context.Context, userID string, in CardInput) (*domain.Card, error) {
	c := &domain.Card{ID: uuid.NewString(), UserID: userID, CreatedAt: stamp(s.Clock)}
	in.apply(c)
	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		if err := s.checkNumber(ctx, tx, c.Number, ""); err != nil {
			return err
		}
		n, err := tx.Cards.Count(ctx, userID)
		if err != nil {
			return storeErr(err, "card")
		}
		c.IsDefault = in.IsDefault || n == 0
		if c.IsDefault {
			if err := tx.Cards.UnsetDefault(ctx, userID); err != nil {
				return storeErr(err, "card")
			}
		}
		return storeErr(tx.Cards.Create(ctx, c), "card")
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CardService) Update(ctx context.Context, userID, id string, in CardInput) (*domain.Card, error) {
	var out *domain.Card
	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		c, err := tx.Cards.Get(ctx, userID, id)
		if err != nil {
			return storeErr(err, "card")
		}
		if in.Number != c.Number {
			if err := s.checkNumber(ctx, tx, in.Number, c.ID); err != nil {
				return err
			}
		}
		in.apply(c)
		if in.IsDefault && !c.IsDefault {
			if err := tx.Cards.UnsetDefault(ctx, userID); err != nil {
				return storeErr(err, "card")
			}
			c.IsDefault = true
		}
		if err := tx.Cards.Update(ctx, c); err != nil {
			return storeErr(err, "card")
		}
		out = c
		return nil
	})
	return out, err
}

// Delete removes a card; if it was the default the oldest remaining one is promoted.
func (s *CardService) Delete(ctx context.Context, userID, id string) error {
	return s.Store.InTx(ctx, func(tx *repos.Store) error {
		c, err := tx.Cards.Get(ctx, userID, id)
		if err != nil {
			return storeErr(err, "card")
		}
		if err := tx.Cards.Delete(ctx, userID, id); err != nil {
			return storeErr(err, "card")
		}
		if !c.IsDefault {
			return nil
		}
		next, err := tx.Cards.Oldest(ctx, userID)
		if repos.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return storeErr(err, "card")
		}
		return storeErr(tx.Cards.SetDefault(ctx, userID, next.ID), "card")
	})
}

func (s *CardService) SetDefault(ctx context.Context, userID, id string) (*domain.Card, error) {
	var out *domain.Card
	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		c, err := tx.Cards.Get(ctx, userID, id)
		if err != nil {
			return storeErr(err, "card")
		}
		if err := tx.Cards.UnsetDefault(ctx, userID); err != nil {
			return storeErr(err, "card")
		}
		if err := tx.Cards.SetDefault(ctx, userID, id); err != nil {
			return storeErr(err, "card")
		}
		c.IsDefault = true
		out = c
		return nil
	})
	return out, err
}
