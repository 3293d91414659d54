package constant

// Platform identifiers reported by the native media host or derived from runtime.GOOS.
const (
	Windows      = "windows"
	Darwin       = "darwin"
	Linux        = "linux"
	Android      = "android"
	IOS          = "ios"
	AmazonFireOS = "amazon-fireos"
	WindowsPhone = "windowsphone"
)
