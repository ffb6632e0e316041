package jobs

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"run2rejuvenate-api/models"
	"run2rejuvenate-api/services"
)

// StorageCleanupJob periodically removes bucket objects whose photo record is
// gone, so failed deletes and interrupted uploads do not accumulate.
type StorageCleanupJob struct {
	db      *gorm.DB
	storage services.ObjectStorage
	ticker  *time.Ticker
	done    chan bool
}

// NewStorageCleanupJob creates a new storage cleanup job
func NewStorageCleanupJob(db *gorm.DB, storage services.ObjectStorage, interval time.Duration) *StorageCleanupJob {
	return &StorageCleanupJob{
		db:      db,
		storage: storage,
		ticker:  time.NewTicker(interval),
		done:    make(chan bool),
	}
}

// Start begins the cleanup job
func (j *StorageCleanupJob) Start() {
	fmt.Println("Storage cleanup job started")

	go func() {
		// Run immediately on start
		j.cleanup()

		// Then run on schedule
		for {
			select {
			case <-j.ticker.C:
				j.cleanup()
			case <-j.done:
				fmt.Println("Storage cleanup job stopped")
				return
			}
		}
	}()
}

// Stop stops the cleanup job
func (j *StorageCleanupJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

func (j *StorageCleanupJob) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	keys, err := j.storage.ListKeys(ctx)
	if err != nil {
		fmt.Printf("Storage cleanup: failed to list objects: %v\n", err)
		return
	}

	removed := 0
	for _, key := range keys {
		var count int64
		if err := j.db.Model(&models.Photo{}).Where("object_key = ?", key).Count(&count).Error; err != nil {
			fmt.Printf("Storage cleanup: failed to check object %s: %v\n", key, err)
			continue
		}
		if count > 0 {
			continue
		}

		if err := j.storage.Remove(ctx, key); err != nil {
			fmt.Printf("Storage cleanup: failed to remove object %s: %v\n", key, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		fmt.Printf("Storage cleanup: removed %d orphaned objects\n", removed)
	}
}
