// Pupscout - Random Dog Picker with Breed Ban Lists
// Copyright 2026 Pupscout Contributors
// SPDX-License-Identifier: MIT
// https://github.com/pupscout/pupscout

package fetch

import (
	"github.com/pupscout/pupscout/internal/models"
)

// Normalizer maps one raw upstream item into a DogRecord.
//
// In strict mode an item without a breed sub-object is unusable and
// discarded. In lenient mode (the default inside the picker) such an
// item is still returned with empty attributes and
// HasFullAttributes=false, which keeps it eligible for enrichment and
// for the degraded-fallback path.
type Normalizer struct {
	Strict bool
}

// Normalize converts a raw image into a DogRecord. The second return
// value is false when the item is unusable: it lacks an ID or asset
// URL, or it lacks breed metadata while the normalizer is strict.
//
// The returned record always carries the full fixed attribute key set;
// missing source data is the empty string, never an absent key.
func (n Normalizer) Normalize(img *SourceImage) (*models.DogRecord, bool) {
	if img == nil || img.ID == "" || img.URL == "" {
		return nil, false
	}

	record := &models.DogRecord{
		ID:       img.ID,
		ImageURL: img.URL,
		Attributes: map[string]string{
			models.AttrName:        "",
			models.AttrTemperament: "",
			models.AttrLifeSpan:    "",
			models.AttrWeight:      "",
			models.AttrHeight:      "",
		},
	}

	if len(img.Breeds) == 0 {
		if n.Strict {
			return nil, false
		}
		return record, true
	}

	// The first breed is the attribute source; the API attaches at
	// most one in practice.
	breed := &img.Breeds[0]
	record.Attributes[models.AttrName] = breed.Name
	record.Attributes[models.AttrTemperament] = breed.Temperament
	record.Attributes[models.AttrLifeSpan] = breed.LifeSpan
	record.Attributes[models.AttrWeight] = breed.Weight.Metric
	record.Attributes[models.AttrHeight] = breed.Height.Metric
	record.HasFullAttributes = true

	return record, true
}
