package game

import (
	"context"
	"strings"
)

type MaterialCardPatch struct {
	Name       *string
	Properties *string
	Uses       *string
}

type ChallengeCardPatch struct {
	Title             *string
	Description       *string
	KeyConsiderations *string
	BonusPoints       *int
}

type BonusCardPatch struct {
	Name         *string
	Effect       *string
	ScoringRules *string
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// patchRequired applies a patch value for a required text field.
func patchRequired(dst *string, value *string) bool {
	if value == nil {
		return true
	}
	if strings.TrimSpace(*value) == "" {
		return false
	}
	*dst = *value
	return true
}

func (e *Engine) CreateMaterialCard(ctx context.Context, card MaterialCard) (MaterialCard, error) {
	if blank(card.Name, card.Properties, card.Uses) {
		return MaterialCard{}, validationError("Name, properties, and uses are required fields.")
	}
	card.ID = 0
	err := e.store.InTx(ctx, func(tx Tx) error {
		return StoreFailure(tx.CreateMaterialCard(ctx, &card))
	})
	return card, err
}

func (e *Engine) MaterialCards(ctx context.Context) ([]MaterialCard, error) {
	var cards []MaterialCard
	err := e.store.InTx(ctx, func(tx Tx) error {
		var err error
		cards, err = tx.MaterialCards(ctx)
		return StoreFailure(err)
	})
	return cards, err
}

func (e *Engine) MaterialCard(ctx context.Context, id uint) (MaterialCard, error) {
	var card MaterialCard
	err := e.store.InTx(ctx, func(tx Tx) error {
		var err error
		card, err = tx.MaterialCard(ctx, id)
		return lookupCardError(err, "Material card")
	})
	return card, err
}

func (e *Engine) UpdateMaterialCard(ctx context.Context, id uint, patch MaterialCardPatch) (MaterialCard, error) {
	var card MaterialCard
	err := e.store.InTx(ctx, func(tx Tx) error {
		var err error
		card, err = tx.MaterialCard(ctx, id)
		if err != nil {
			return lookupCardError(err, "Material card")
		}
		if !patchRequired(&card.Name, patch.Name) ||
			!patchRequired(&card.Properties, patch.Properties) ||
			!patchRequired(&card.Uses, patch.Uses) {
			return validationError("Name, properties, and uses must not be empty.")
		}
		return StoreFailure(tx.UpdateMaterialCard(ctx, card))
	})
	return card, err
}

func (e *Engine) DeleteMaterialCard(ctx context.Context, id uint) error {
	return e.store.InTx(ctx, func(tx Tx) error {
		return lookupCardError(tx.DeleteMaterialCard(ctx, id), "Material card")
	})
}

func (e *Engine) CreateChallengeCard(ctx context.Context, card ChallengeCard) (ChallengeCard, error) {
	if blank(card.Title) {
		return ChallengeCard{}, validationError("Title is required")
	}
	if blank(card.Description) {
		return ChallengeCard{}, validationError("Description is required")
	}
	card.ID = 0
	err := e.store.InTx(ctx, func(tx Tx) error {
		return StoreFailure(tx.CreateChallengeCard(ctx, &card))
	})
	return card, err
}

func (e *Engine) ChallengeCards(ctx context.Context) ([]ChallengeCard, error) {
	var cards []ChallengeCard
	err := e.store.InTx(ctx, func(tx Tx) error {
		var err error
		cards, err = tx.ChallengeCards(ctx)
		return StoreFailure(err)
	})
	return cards, err
}

func (e *Engine) ChallengeCard(ctx context.Context, id uint) (ChallengeCard, error) {
	var card ChallengeCard
	err := e.store.InTx(ctx, func(tx Tx) error {
		var err error
		card, err = tx.ChallengeCard(ctx, id)
		return lookupCardError(err, "Challenge card")
	})
	return card, err
}

func (e *Engine) UpdateChallengeCard(ctx context.Context, id uint, patch ChallengeCardPatch) (ChallengeCard, error) {
	var card ChallengeCard
	err := e.store.InTx(ctx, func(tx Tx) error {
		var err error
		card, err = tx.ChallengeCard(ctx, id)
		if err != nil {
			return lookupCardError(err, "Challenge card")
		}
		if !patchRequired(&card.Title, patch.Title) || !patchRequired(&card.Description, patch.Description) {
			return validationError("Title and description must not be empty.")
		}
		if patch.KeyConsiderations != nil {
			card.KeyConsiderations = patch.KeyConsiderations
		}
		if patch.BonusPoints != nil {
			card.BonusPoints = patch.BonusPoints
		}
		return StoreFailure(tx.UpdateChallengeCard(ctx, card))
	})
	return card, err
}

func (e *Engine) DeleteChallengeCard(ctx context.Context, id uint) error {
	return e.store.InTx(ctx, func(tx Tx) error {
		return lookupCardError(tx.DeleteChallengeCard(ctx, id), "Challenge card")
	})
}

func (e *Engine) CreateBonusCard(ctx context.Context, card BonusCard) (BonusCard, error) {
	if blank(card.Name, card.Effect, card.ScoringRules) {
		return BonusCard{}, validationError("Name, effect, and scoring rules are required fields.")
	}
	card.ID = 0
	err := e.store.InTx(ctx, func(tx Tx) error {
		return StoreFailure(tx.CreateBonusCard(ctx, &card))
	})
	return card, err
}

func (e *Engine) BonusCards(ctx context.Context) ([]BonusCard, error) {
	var cards []BonusCard
	err := e.store.InTx(ctx, func(tx Tx) error {
		var err error
		cards, err = tx.BonusCards(ctx)
		return StoreFailure(err)
	})
	return cards, err
}

func (e *Engine) BonusCard(ctx context.Context, id uint) (BonusCard, error) {
	var card BonusCard
	err := e.store.InTx(ctx, func(tx Tx) error {
		var err error
		card, err = tx.BonusCard(ctx, id)
		return lookupCardError(err, "Bonus card")
	})
	return card, err
}

func (e *Engine) UpdateBonusCard(ctx context.Context, id uint, patch BonusCardPatch) (BonusCard, error) {
	var card BonusCard
	err := e.store.InTx(ctx, func(tx Tx) error {
		var err error
		card, err = tx.BonusCard(ctx, id)
		if err != nil {
			return lookupCardError(err, "Bonus card")
		}
		if !patchRequired(&card.Name, patch.Name) ||
			!patchRequired(&card.Effect, patch.Effect) ||
			!patchRequired(&card.ScoringRules, patch.ScoringRules) {
			return validationError("Name, effect, and scoring rules must not be empty.")
		}
		return StoreFailure(tx.UpdateBonusCard(ctx, card))
	})
	return card, err
}

func (e *Engine) DeleteBonusCard(ctx context.Context, id uint) error {
	return e.store.InTx(ctx, func(tx Tx) error {
		return lookupCardError(tx.DeleteBonusCard(ctx, id), "Bonus card")
	})
}

func lookupCardError(err error, label string) error {
	switch {
	case err == nil:
		return nil
	case IsNotFound(err):
		return notFound(label + " not found.")
	case KindOf(err) == KindConflict:
		return ErrInUse.WithMessage(label + " is used by a round and cannot be deleted.")
	default:
		return StoreFailure(err)
	}
}
