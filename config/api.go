package config

// GetAuthSkipperPaths returns a list of paths to skip authentication for
func GetAuthSkipperPaths() []string {
	// Health check stays public; everything else under /api needs auth
	return []string{"/health"}
}
