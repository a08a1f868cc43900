package jobs

import (
	"log"
	"strconv"
	"time"

	"github.com/jhkimon/crimson-erp-sub000/config"
	"github.com/jhkimon/crimson-erp-sub000/cron"
	inventoryService "github.com/jhkimon/crimson-erp-sub000/service/inventory"
)

func init() {
	// 00:05 on the 1st: carry last month's snapshots into the new month
	cron.Register("snapshotrollover", "5 0 1 * *", SnapshotRolloverJob)
}

// SnapshotRolloverJob carries the just-ended month's snapshot rows into the
// new month. Scheduled on the 1st; re-runs skip variants already carried
// over, so overlapping runs are harmless. Optional args override the source
// period: SnapshotRolloverJob("2026", "7").
func SnapshotRolloverJob(args ...string) {
	year, month := inventoryService.PrevPeriod(time.Now().Year(), int(time.Now().Month()))
	if len(args) >= 2 {
		if y, err := strconv.Atoi(args[0]); err == nil {
			year = y
		}
		if m, err := strconv.Atoi(args[1]); err == nil {
			month = m
		}
	}

	db, err := config.NewDB()
	if err != nil {
		log.Printf("snapshot rollover: db connect failed: %v", err)
		return
	}

	res, err := inventoryService.Rollover(db, year, month, inventoryService.RolloverOptions{})
	if err != nil {
		log.Printf("snapshot rollover %d-%02d failed: %v", year, month, err)
		return
	}
	log.Printf("snapshot rollover %d-%02d -> %d-%02d: created %d, skipped %d",
		year, month, res.NextYear, res.NextMonth, res.Created, res.Skipped)
}
