package traffic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// rowPrefix marks the record lines of the feed, e.g.
//
//	<row solarSystemID="30000142" shipJumps="312" />
const rowPrefix = "<row "

var errMalformedRow = errors.New("malformed row")

// ParseRow extracts the system id and hourly count from a feed line. Lines
// that are not records return ok == false and no error. Record lines whose
// quoted fields are missing or non-numeric return an error.
func ParseRow(line string) (id, count int32, ok bool, err error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, rowPrefix) {
		return 0, 0, false, nil
	}
	tokens := strings.Split(line, `"`)
	if len(tokens) < 4 {
		return 0, 0, false, fmt.Errorf("%w: %q", errMalformedRow, line)
	}
	sys, err := strconv.ParseInt(tokens[1], 10, 32)
	if err != nil {
		return 0, 0, false, fmt.Errorf("%w: system id %q", errMalformedRow, tokens[1])
	}
	n, err := strconv.ParseInt(tokens[3], 10, 32)
	if err != nil || n < 0 {
		return 0, 0, false, fmt.Errorf("%w: count %q", errMalformedRow, tokens[3])
	}
	return int32(sys), int32(n), true, nil
}
