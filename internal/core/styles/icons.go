package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconLink    = "\uf0c1" // link
	IconFile    = "\uf15c" // file-text
	IconCache   = "\uf1c0" // database
	IconWarning = "\uf071" // warning
)
