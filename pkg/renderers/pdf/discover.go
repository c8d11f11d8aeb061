package pdf

import "os"

// SystemTamilFonts are the usual install locations of OFL-licensed Tamil
// faces (Noto Sans Tamil, Lohit Tamil) on Linux and macOS.
var SystemTamilFonts = []string{
	"/usr/share/fonts/truetype/noto/NotoSansTamil-Regular.ttf",
	"/usr/share/fonts/noto/NotoSansTamil-Regular.ttf",
	"/usr/share/fonts/google-noto/NotoSansTamil-Regular.ttf",
	"/usr/share/fonts/truetype/lohit-tamil/Lohit-Tamil.ttf",
	"/usr/share/fonts/lohit-tamil/Lohit-Tamil.ttf",
	"/Library/Fonts/NotoSansTamil-Regular.ttf",
}

// FindTamilFont returns the first path that holds a TrueType font covering
// Tamil letters. Paths default to SystemTamilFonts; unreadable or unsuitable
// files are skipped.
func FindTamilFont(paths ...string) (string, bool) {
	if len(paths) == 0 {
		paths = SystemTamilFonts
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if checkTamilCoverage(data) == nil {
			return path, true
		}
	}
	return "", false
}
