package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/wallace-21/BirdNest/internal/config"
	"github.com/wallace-21/BirdNest/internal/domain/models"
	"github.com/wallace-21/BirdNest/internal/repository/gormdb"
	"github.com/wallace-21/BirdNest/pkg/logger"
)

// Sample catalog entry used to bootstrap an empty database.
const peregrineFalconJSON = `{
  "bird_id": "peregrine-falcon",
  "name": "Peregrine Falcon",
  "scientific_name": "Falco peregrinus",
  "conservation_status": {
    "status": "least-concern",
    "label": "Least Concern",
    "description": "The Peregrine Falcon has made a remarkable recovery from near extinction after populations crashed due to DDT poisoning in the mid-20th century.",
    "currentThreats": ["Habitat loss", "Illegal hunting", "Collisions with human-made structures"]
  },
  "quick_facts": [
    {"label": "Family", "value": "Falconidae", "icon": "feather"},
    {"label": "Order", "value": "Falconiformes", "icon": "sitemap"},
    {"label": "Wingspan", "value": "89-120 cm", "icon": "ruler-horizontal"},
    {"label": "Weight", "value": "0.45-1.5 kg", "icon": "weight-hanging"}
  ],
  "tags": [
    {"text": "Migratory", "icon": "plane"},
    {"text": "Not Extinct", "icon": "skull", "class": "extinct-tag"}
  ],
  "images": {
    "main": [
      {"url": "https://placehold.co/600x400", "alt": "Peregrine Falcon", "caption": "Adult Peregrine Falcon perched on a cliff"}
    ],
    "gallery": [
      {"url": "https://placehold.co/600x400", "alt": "Peregrine Falcon in flight", "caption": "Peregrine Falcon in flight"}
    ]
  },
  "overview": {
    "about": {
      "title": "About the Peregrine Falcon",
      "paragraphs": [
        "The Peregrine Falcon is renowned for its speed, reaching over 320 km/h during its characteristic hunting dive, making it the fastest member of the animal kingdom."
      ]
    },
    "physicalCharacteristics": {
      "title": "Physical Characteristics",
      "features": [
        {"name": "Size", "value": "Medium-sized falcon, 34-58 cm in length"},
        {"name": "Lifespan", "value": "Up to 15-20 years in the wild"}
      ]
    }
  },
  "habitat_and_distribution": {
    "habitat": {
      "title": "Habitat",
      "description": "Highly adaptable, found in a wide variety of habitats.",
      "types": [
        {"name": "Mountain ranges and cliffs", "icon": "mountain"},
        {"name": "Urban environments", "icon": "city"}
      ]
    },
    "distribution": {
      "title": "Geographic Distribution",
      "description": "Found on every continent except Antarctica.",
      "regions": ["North America", "South America", "Europe", "Africa", "Asia", "Australia"]
    }
  },
  "diet_and_behavior": {
    "diet": {
      "title": "Diet",
      "description": "Feeds almost exclusively on medium-sized birds caught in flight."
    },
    "hunting": {
      "title": "Hunting",
      "description": "Hunts from above, diving at extreme speed to strike prey mid-air."
    }
  },
  "sounds": {
    "vocalizations": [
      {"title": "Alarm call", "description": "A harsh, repeated kak-kak-kak near the nest", "context": "territorial defense", "audioSrc": "", "duration": "0:12"}
    ]
  },
  "related_birds": [
    {"name": "Gyrfalcon", "scientificName": "Falco rusticolus", "image": "https://placehold.co/300x200", "alt": "Gyrfalcon", "profileUrl": "/birds/gyrfalcon"}
  ],
  "meta_data": {
    "lastUpdated": "2024-01-15",
    "contributors": ["BirdNest Team"],
    "sources": ["IUCN Red List"],
    "tags": ["raptor", "falcon"]
  }
}`

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.Debug))
	defer func() { _ = baseLogger.Sync() }()

	db, err := gormdb.Open(cfg.Database.URL, cfg.Server.Debug)
	if err != nil {
		baseLogger.Fatal("failed to open database", zap.Error(err))
	}

	if err := gormdb.Migrate(db, &models.Bird{}); err != nil {
		baseLogger.Fatal("failed to migrate database", zap.Error(err))
	}

	repo := gormdb.NewBirdRepository(db)

	var payload models.BirdCreate
	if err := json.Unmarshal([]byte(peregrineFalconJSON), &payload); err != nil {
		baseLogger.Fatal("invalid sample data", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := repo.GetByBirdID(ctx, payload.BirdID); err == nil {
		baseLogger.Info("sample bird already present, nothing to do", zap.String("bird_id", payload.BirdID))
		return
	} else if !errors.Is(err, models.ErrNotFound) {
		baseLogger.Fatal("failed to check existing sample bird", zap.Error(err))
	}

	bird := payload.ToBird()
	if err := repo.Create(ctx, &bird); err != nil {
		baseLogger.Fatal("failed to insert sample bird", zap.Error(err))
	}

	baseLogger.Info("sample bird inserted",
		zap.String("bird_id", bird.BirdID),
		zap.Uint("id", bird.ID))
}
