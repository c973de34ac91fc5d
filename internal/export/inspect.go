package export

import (
	"github.com/ledongthuc/pdf"
)

// Info describes a saved PDF.
type Info struct {
	Path  string
	Pages int
	Size  int64
}

// Inspect opens a saved PDF and reports its page count.
func Inspect(path string) (Info, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return Info{}, &Error{Message: "failed to read " + path, Cause: err}
	}
	defer func() { _ = f.Close() }()

	info := Info{Path: path, Pages: r.NumPage()}
	if st, err := f.Stat(); err == nil {
		info.Size = st.Size()
	}
	return info, nil
}
