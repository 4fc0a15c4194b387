package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/narratif/studio/internal/assets"
	"github.com/narratif/studio/internal/gateway"
	"github.com/narratif/studio/internal/models"
)

// Media generation runs in two locked phases around an unlocked
// provider call, so other work on the project proceeds while a shot
// renders. The second phase reloads the project; a project deleted in
// the meantime rejects the result with ErrProjectNotFound and the
// generated media is dropped.

// GenerateShotImage renders the image for one shot.
func (o *Orchestrator) GenerateShotImage(ctx context.Context, id, sceneName string, shotID int) (*models.Project, error) {
	var prompt string
	if _, err := o.withProject(ctx, id, func(p *models.Project, _ models.ProviderSettings) error {
		var err error
		prompt, err = o.pipe.BeginShotImage(p, sceneName, shotID)
		return err
	}); err != nil {
		return nil, err
	}

	img, genErr := o.gw.GenerateImage(ctx, o.settings.Get(ctx), prompt)

	return o.withProject(ctx, id, func(p *models.Project, _ models.ProviderSettings) error {
		if genErr != nil {
			o.pipe.FailShotImage(p, sceneName, shotID)
			return fmt.Errorf("image generation failed: %w", genErr)
		}
		o.pipe.CompleteShotImage(p, sceneName, shotID, o.imageURL(ctx, p.ID, img))
		return nil
	})
}

// GenerateShotVideo renders the clip for one shot. A shot without a
// video prompt is left untouched.
func (o *Orchestrator) GenerateShotVideo(ctx context.Context, id, sceneName string, shotID int) (*models.Project, error) {
	var prompt string
	p, err := o.withProject(ctx, id, func(p *models.Project, _ models.ProviderSettings) error {
		var err error
		prompt, err = o.pipe.BeginShotVideo(p, sceneName, shotID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if prompt == "" {
		return p, nil
	}

	url, genErr := o.gw.GenerateVideo(ctx, o.settings.Get(ctx), prompt)

	return o.withProject(ctx, id, func(p *models.Project, _ models.ProviderSettings) error {
		if genErr != nil {
			o.pipe.FailShotVideo(p, sceneName, shotID)
			return fmt.Errorf("video generation failed: %w", genErr)
		}
		o.pipe.CompleteShotVideo(p, sceneName, shotID, url)
		return nil
	})
}

// GenerateCharacterImage renders a character's reference portrait.
func (o *Orchestrator) GenerateCharacterImage(ctx context.Context, id, characterID string) (*models.Project, error) {
	var prompt string
	if _, err := o.withProject(ctx, id, func(p *models.Project, _ models.ProviderSettings) error {
		var err error
		prompt, err = o.pipe.BeginCharacterImage(p, characterID)
		return err
	}); err != nil {
		return nil, err
	}

	img, genErr := o.gw.GenerateImage(ctx, o.settings.Get(ctx), prompt)

	return o.withProject(ctx, id, func(p *models.Project, _ models.ProviderSettings) error {
		if genErr != nil {
			o.pipe.FailCharacterImage(p, characterID)
			return fmt.Errorf("portrait generation failed: %w", genErr)
		}
		o.pipe.CompleteCharacterImage(p, characterID, o.imageURL(ctx, p.ID, img))
		return nil
	})
}

// GenerateThumbnailImage renders one thumbnail option.
func (o *Orchestrator) GenerateThumbnailImage(ctx context.Context, id string, thumbnailID int) (*models.Project, error) {
	var prompt string
	if _, err := o.withProject(ctx, id, func(p *models.Project, _ models.ProviderSettings) error {
		var err error
		prompt, err = o.pipe.BeginThumbnailImage(p, thumbnailID)
		return err
	}); err != nil {
		return nil, err
	}

	img, genErr := o.gw.GenerateImage(ctx, o.settings.Get(ctx), prompt)

	return o.withProject(ctx, id, func(p *models.Project, _ models.ProviderSettings) error {
		if genErr != nil {
			o.pipe.FailThumbnailImage(p, thumbnailID)
			return fmt.Errorf("thumbnail generation failed: %w", genErr)
		}
		o.pipe.CompleteThumbnailImage(p, thumbnailID, o.imageURL(ctx, p.ID, img))
		return nil
	})
}

// imageURL uploads the image when an asset store is configured, falling
// back to an inline data URL on upload failure or when no store exists.
func (o *Orchestrator) imageURL(ctx context.Context, projectID string, img *gateway.ImageData) string {
	if o.assets == nil {
		return img.DataURL()
	}
	objectName := fmt.Sprintf("projects/%s/%s.%s", projectID, uuid.New().String(), assets.ExtensionFor(img.MIMEType))
	url, err := o.assets.StoreImage(ctx, objectName, img.MIMEType, img.Data)
	if err != nil {
		o.logger.Warn("Failed to upload image, storing inline",
			zap.String("projectId", projectID),
			zap.Error(err),
		)
		return img.DataURL()
	}
	return url
}
