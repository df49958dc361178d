package globals

// Namespace returns "packageName" or "packageName/app" for naming per-app
// resources.
func Namespace(packageName, app string) string {
	if app == "" {
		return packageName
	}
	return packageName + "/" + app
}
