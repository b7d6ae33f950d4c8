package domain

// CapturedContent is the resolved user context a session is seeded from.
// Produced once at session creation and immutable afterwards. Text is always
// non-empty; ScreenshotURL is only set when ScreenshotPath is set and an
// upload host accepted the file.
type CapturedContent struct {
	Text           string
	ScreenshotPath string
	ScreenshotURL  string
}

func (c CapturedContent) HasScreenshot() bool {
	return c.ScreenshotPath != ""
}

func (c CapturedContent) HasScreenshotURL() bool {
	return c.ScreenshotURL != ""
}
