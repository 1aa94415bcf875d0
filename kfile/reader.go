// Package kfile reads and writes LS-DYNA keyword (.k) mesh files. Only the
// mesh-bearing keywords (*NODE, *ELEMENT_SOLID, *PART) are interpreted;
// everything else is skipped.
package kfile

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/koremap/koremap/mesh"
)

// Read parses a keyword file into a mesh. Both comma-separated and
// whitespace-separated field layouts are accepted.
func Read(filename string) (*mesh.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open file: %w", err)
	}
	defer file.Close()

	m := mesh.NewMesh()
	m.Name = filename

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var keyword string
	var pendingPartName string
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")

		if line == "" || strings.HasPrefix(line, "$") {
			continue
		}

		if strings.HasPrefix(line, "*") {
			keyword = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(line, "*")))
			// Option suffixes like ELEMENT_SOLID_ORTHO collapse to the base
			// keyword we know how to read.
			switch {
			case keyword == "END":
				return m, scanner.Err()
			case strings.HasPrefix(keyword, "ELEMENT_SOLID"):
				keyword = "ELEMENT_SOLID"
			}
			pendingPartName = ""
			continue
		}

		switch keyword {
		case "NODE":
			if err := parseNodeLine(m, line); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
		case "ELEMENT_SOLID":
			if err := parseElementLine(m, line); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
		case "PART":
			// *PART cards carry a title line followed by the numeric line.
			if pendingPartName == "" && !startsNumeric(line) {
				pendingPartName = strings.TrimSpace(line)
				continue
			}
			fields := splitFields(line)
			if len(fields) >= 1 {
				id, err := strconv.Atoi(fields[0])
				if err != nil {
					return nil, fmt.Errorf("line %d: bad part id %q", lineNum, fields[0])
				}
				m.AddPart(id, pendingPartName)
			}
			pendingPartName = ""
		}
	}
	return m, scanner.Err()
}

func parseNodeLine(m *mesh.Mesh, line string) error {
	fields := splitFields(line)
	if len(fields) < 4 {
		return fmt.Errorf("node line has %d fields, need id and 3 coordinates", len(fields))
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("bad node id %q", fields[0])
	}
	var coords [3]float64
	for i := 0; i < 3; i++ {
		coords[i], err = strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return fmt.Errorf("node %d: bad coordinate %q", id, fields[i+1])
		}
	}
	m.AddNode(id, coords[0], coords[1], coords[2])
	return nil
}

func parseElementLine(m *mesh.Mesh, line string) error {
	fields := splitFields(line)
	if len(fields) < 10 {
		return fmt.Errorf("solid element line has %d fields, need id, part and 8 nodes", len(fields))
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("bad element id %q", fields[0])
	}
	partID, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("element %d: bad part id %q", id, fields[1])
	}
	var nodeIDs [mesh.NumNodes]int
	for i := 0; i < mesh.NumNodes; i++ {
		nodeIDs[i], err = strconv.Atoi(fields[i+2])
		if err != nil {
			return fmt.Errorf("element %d: bad node id %q", id, fields[i+2])
		}
	}
	m.AddElement(id, partID, nodeIDs)
	// Degenerate (repeated) trailing nodes denote a tetrahedron.
	if nodeIDs[4] == nodeIDs[5] && nodeIDs[5] == nodeIDs[6] && nodeIDs[6] == nodeIDs[7] {
		m.Element(id).Type = mesh.Tet4
	}
	return nil
}

func splitFields(line string) []string {
	if strings.Contains(line, ",") {
		parts := strings.Split(line, ",")
		fields := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				fields = append(fields, p)
			}
		}
		return fields
	}
	return strings.Fields(line)
}

func startsNumeric(line string) bool {
	fields := splitFields(line)
	if len(fields) == 0 {
		return false
	}
	_, err := strconv.Atoi(fields[0])
	return err == nil
}
