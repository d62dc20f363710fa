package parser

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/yourusername/form-guide/internal/models"
)

const dateLayout = "2006-01-02"

var (
	// QSTR_2025-09-08.pdf, rich-2025-09-05.txt
	trackDateNameRe = regexp.MustCompile(`^([A-Za-z]{3,6})[_-](\d{4}-\d{2}-\d{2})`)
	// HEALG3108form.pdf (Racing & Sports: track code, G, DDMM)
	rnsFormNameRe = regexp.MustCompile(`^([A-Z]{3,5})G(\d{2})(\d{2})form`)
	dateInNameRe  = regexp.MustCompile(`(20\d{2}-\d{2}-\d{2})`)
	trackCodeRe   = regexp.MustCompile(`^([A-Za-z]{3,6})[_-]`)
)

// Document is one meeting's page text as handed over by the text extractor.
type Document struct {
	// ID is the document identifier, usually its file name.
	ID    string
	Lines []string
}

// Identity is the (track, date) a document's rows are attributed to.
type Identity struct {
	Track string
	Date  string
}

// InferTrackAndDate reads the track code and date out of a document identifier
// such as "QSTR_2025-09-08.pdf". Parts it cannot infer come back empty.
func InferTrackAndDate(id string) (track, date string) {
	stem := fileStem(id)

	if m := trackDateNameRe.FindStringSubmatch(stem); m != nil {
		if validDate(m[2]) {
			return strings.ToUpper(m[1]), m[2]
		}
		return strings.ToUpper(m[1]), ""
	}

	if m := trackCodeRe.FindStringSubmatch(stem); m != nil {
		track = strings.ToUpper(m[1])
	}
	if m := dateInNameRe.FindStringSubmatch(stem); m != nil && validDate(m[1]) {
		date = m[1]
	}
	return track, date
}

// ResolveIdentity infers the identity of a document and labels anything it
// cannot resolve as models.Unknown. runDate supplies the year for Racing &
// Sports names, which only carry day and month; pass the zero time to skip.
func ResolveIdentity(id string, runDate time.Time) Identity {
	track, date := InferTrackAndDate(id)

	if track == "" || date == "" {
		if m := rnsFormNameRe.FindStringSubmatch(fileStem(id)); m != nil {
			if track == "" {
				track = m[1]
			}
			if date == "" && !runDate.IsZero() {
				candidate := fmt.Sprintf("%04d-%s-%s", runDate.Year(), m[3], m[2])
				if validDate(candidate) {
					date = candidate
				}
			}
		}
	}

	if track == "" {
		track = models.Unknown
	}
	if date == "" {
		date = models.Unknown
	}
	return Identity{Track: track, Date: date}
}

// ParseDocument resolves the document identity and assembles its rows.
func ParseDocument(doc Document, runDate time.Time, classifier *Classifier) Result {
	return Assemble(ResolveIdentity(doc.ID, runDate), doc.Lines, classifier)
}

func fileStem(id string) string {
	base := filepath.Base(id)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
