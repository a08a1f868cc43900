package config

// Map of job names to job functions
type CronJob struct {
	Schedule string
	Job      func(...string)
}

// CronJobs holds statically configured jobs. Feature packages register
// theirs through cron.Register instead, so this table stays empty unless a
// deployment pins one here.
var CronJobs = map[string]CronJob{
	// Add jobs here
}
