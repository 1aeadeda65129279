package ingest

import (
	"gorm.io/gorm"

	"github.com/threadscout/threadscout/internal/models"
	"github.com/threadscout/threadscout/internal/reddit"
)

// IntegrityFilter decides which scraped submissions are new to the store.
// One batched existence query covers the whole cycle instead of a round-trip
// per post. The check is not atomic with the insert; the pipeline assumes a
// single writer per store.
type IntegrityFilter struct{}

// NewIntegrityFilter creates a new integrity filter
func NewIntegrityFilter() *IntegrityFilter {
	return &IntegrityFilter{}
}

// FilterNew returns the submission IDs from the scraped posts that are not
// yet present in the store, preserving scrape order.
func (f *IntegrityFilter) FilterNew(tx *gorm.DB, posts []reddit.Submission) ([]string, error) {
	if len(posts) == 0 {
		return []string{}, nil
	}

	scraped := make([]string, 0, len(posts))
	for _, post := range posts {
		scraped = append(scraped, post.ID)
	}

	var existing []string
	if err := tx.Model(&models.Post{}).
		Where("submission_id IN ?", scraped).
		Pluck("submission_id", &existing).Error; err != nil {
		return nil, err
	}

	existingSet := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		existingSet[id] = struct{}{}
	}

	fresh := []string{}
	for _, id := range scraped {
		if _, ok := existingSet[id]; !ok {
			fresh = append(fresh, id)
		}
	}

	return fresh, nil
}
