package listing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/weldcount/internal/model"
)

// axisRe matches one coordinate token of the form "X 1234.5mm".
var axisRe = regexp.MustCompile(`(?i)\b([XYZ])\s+(-?[0-9]+(?:\.[0-9]+)?)\s*mm`)

// numRe matches a bare millimeter or unitless numeric attribute value.
var numRe = regexp.MustCompile(`(-?[0-9]+(?:\.[0-9]+)?)\s*(?:mm)?\b`)

// headerRe matches an entity header line: "NEW <TYPE> [/name]".
var headerRe = regexp.MustCompile(`(?i)^\s*NEW\s+([A-Z]+)(?:\s+(/\S+))?`)

// attrKeywords are the attribute line prefixes the parser understands.
// A continuation line (second half of a split coordinate) starts with none
// of these and with no NEW header.
var attrKeywords = []string{"HPOS", "TPOS", "POS", "HCON", "TCON", "CONN1", "CONN2", "CON1", "CON2", "PBOR1", "PBOR", "FORM"}

func isAttrOrHeader(line string) bool {
	up := strings.ToUpper(strings.TrimSpace(line))
	if strings.HasPrefix(up, "NEW ") {
		return true
	}
	for _, kw := range attrKeywords {
		if strings.HasPrefix(up, kw+" ") || up == kw {
			return true
		}
	}
	return false
}

// isBranchCode reports whether a header type code opens a branch block.
// Exports abbreviate BRANCH to BRAN depending on the output template.
func isBranchCode(code string) bool {
	up := strings.ToUpper(code)
	return up == "BRANCH" || up == "BRAN"
}

// parseCoords collects axis tokens from a line into an accumulating map.
func parseCoords(line string, into map[string]float64) {
	for _, m := range axisRe.FindAllStringSubmatch(line, -1) {
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		into[strings.ToUpper(m[1])] = v
	}
}

// coordAt consumes a coordinate triple starting at lines[i], tolerating a
// split across the following line. Returns the point, whether all three
// axes were found, and the index of the last line consumed.
func coordAt(lines []string, i int) (model.Point, bool, int) {
	acc := make(map[string]float64, 3)
	parseCoords(lines[i], acc)
	last := i
	if len(acc) < 3 && i+1 < len(lines) && !isAttrOrHeader(lines[i+1]) {
		parseCoords(lines[i+1], acc)
		last = i + 1
	}
	x, okX := acc["X"]
	y, okY := acc["Y"]
	z, okZ := acc["Z"]
	return model.Point{X: x, Y: y, Z: z}, okX && okY && okZ, last
}

// attrValue returns the text after the keyword on an attribute line.
func attrValue(line, keyword string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 || !strings.EqualFold(fields[0], keyword) {
		return ""
	}
	return strings.Join(fields[1:], " ")
}

// BranchResult is the output of the branch position extractor.
type BranchResult struct {
	Branches model.BranchMap
	Dropped  int // branches excluded for unparsable position data
}

// ExtractBranches parses raw listing text into a map of branches keyed by
// id. Branches with malformed or missing HPOS/TPOS are dropped with a
// warning; duplicate ids are last-write-wins.
func ExtractBranches(text, source string) BranchResult {
	lines := strings.Split(text, "\n")
	res := BranchResult{Branches: make(model.BranchMap)}

	var cur *model.Branch
	var hposOK, tposOK bool

	flush := func() {
		if cur == nil {
			return
		}
		if !hposOK || !tposOK {
			zap.L().Warn("listing: dropping branch with unparsable position",
				zap.String("branch", cur.ID),
				zap.Bool("hpos", hposOK),
				zap.Bool("tpos", tposOK),
				zap.String("source", source),
			)
			res.Dropped++
			cur = nil
			return
		}
		if _, dup := res.Branches[cur.ID]; dup {
			zap.L().Info("listing: duplicate branch id, keeping latest",
				zap.String("branch", cur.ID),
			)
		}
		res.Branches[cur.ID] = *cur
		cur = nil
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if m := headerRe.FindStringSubmatch(line); m != nil {
			if isBranchCode(m[1]) {
				flush()
				id := strings.TrimPrefix(m[2], "/")
				if id == "" {
					zap.L().Warn("listing: branch header without a name, skipping block")
					continue
				}
				cur = &model.Branch{ID: id, Source: source}
				hposOK, tposOK = false, false
			}
			continue
		}
		if cur == nil {
			continue
		}
		up := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(up, "HPOS"):
			p, ok, last := coordAt(lines, i)
			cur.HeadPos, hposOK = p, ok
			i = last
		case strings.HasPrefix(up, "TPOS"):
			p, ok, last := coordAt(lines, i)
			cur.TailPos, tposOK = p, ok
			i = last
		case strings.HasPrefix(up, "HCON"):
			cur.HeadConn = model.ConnectionType(strings.ToUpper(attrValue(line, "HCON")))
		case strings.HasPrefix(up, "TCON"):
			cur.TailConn = model.ConnectionType(strings.ToUpper(attrValue(line, "TCON")))
		}
	}
	flush()

	return res
}

// ComponentResult is the output of the component extractor.
type ComponentResult struct {
	Components []model.Component
	Dropped    int // countable components excluded for unparsable positions
}

// ExtractComponents walks the listing and attaches each component to the
// nearest preceding branch header, preserving declaration order. Structural
// components are retained even without a position; countable components with
// missing or malformed positions are excluded with a warning.
func ExtractComponents(text, source string) ComponentResult {
	lines := strings.Split(text, "\n")
	var res ComponentResult

	var branchID string
	var seq int
	var cur *model.Component
	var posOK bool

	flush := func() {
		if cur == nil {
			return
		}
		if !posOK && cur.Type.Countable() {
			zap.L().Warn("listing: dropping component with unparsable position",
				zap.String("component", cur.ID),
				zap.String("branch", cur.BranchID),
				zap.String("source", source),
			)
			res.Dropped++
			cur = nil
			return
		}
		res.Components = append(res.Components, *cur)
		cur = nil
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		m := headerRe.FindStringSubmatch(line)
		if m != nil {
			flush()
			typeCode := strings.ToUpper(m[1])
			if isBranchCode(typeCode) {
				branchID = strings.TrimPrefix(m[2], "/")
				seq = 0
				continue
			}
			if branchID == "" {
				zap.L().Warn("listing: component before any branch header, skipping",
					zap.String("type", typeCode))
				continue
			}
			id := strings.TrimPrefix(m[2], "/")
			if id == "" {
				id = fmt.Sprintf("%s:%s:%d", branchID, typeCode, seq)
			}
			cur = &model.Component{
				ID:       id,
				BranchID: branchID,
				Type:     model.ParseComponentType(typeCode),
				RawType:  typeCode,
				Seq:      seq,
			}
			seq++
			posOK = false
			continue
		}
		if cur == nil {
			continue
		}
		up := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(up, "POS"):
			p, ok, last := coordAt(lines, i)
			cur.Position, posOK = p, ok
			i = last
		case strings.HasPrefix(up, "CONN1"), strings.HasPrefix(up, "CON1"):
			kw := "CON1"
			if strings.HasPrefix(up, "CONN1") {
				kw = "CONN1"
			}
			cur.Port1Conn = model.ConnectionType(strings.ToUpper(attrValue(line, kw)))
		case strings.HasPrefix(up, "CONN2"), strings.HasPrefix(up, "CON2"):
			kw := "CON2"
			if strings.HasPrefix(up, "CONN2") {
				kw = "CONN2"
			}
			cur.Port2Conn = model.ConnectionType(strings.ToUpper(attrValue(line, kw)))
		case strings.HasPrefix(up, "PBOR1"):
			cur.Bore2 = parseNumeric(attrValue(line, "PBOR1"))
		case strings.HasPrefix(up, "PBOR"):
			cur.Bore = parseNumeric(attrValue(line, "PBOR"))
		case strings.HasPrefix(up, "FORM"):
			cur.Form = parseNumeric(attrValue(line, "FORM"))
		}
	}
	flush()

	return res
}

// parseNumeric extracts the leading numeric value from an attribute string,
// tolerating a trailing mm unit. Malformed values come back as 0.
func parseNumeric(s string) float64 {
	m := numRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}
