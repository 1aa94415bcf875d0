package mesh

// HEX8 corner numbering (LS-DYNA convention):
//
//	       7 -------- 6
//	      /|         /|
//	     / |        / |
//	    4 -------- 5  |
//	    |  |       |  |
//	    |  3 ------|- 2
//	    | /        | /
//	    |/         |/
//	    0 -------- 1
//
// Faces pair up by axis: 0/1 are i-/i+, 2/3 are j-/j+, 4/5 are k-/k+.
const (
	NumNodes     = 8
	NumFaces     = 6
	NodesPerFace = 4
	NumEdges     = 12
)

// hexFaceNodes maps local face index to the four local corner indices.
var hexFaceNodes = [NumFaces][NodesPerFace]int{
	{0, 3, 7, 4}, // face 0 (i-)
	{1, 2, 6, 5}, // face 1 (i+)
	{0, 1, 5, 4}, // face 2 (j-)
	{3, 2, 6, 7}, // face 3 (j+)
	{0, 1, 2, 3}, // face 4 (k-)
	{4, 5, 6, 7}, // face 5 (k+)
}

// hexEdgeNodes lists the 12 edges as local corner pairs.
var hexEdgeNodes = [NumEdges][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0}, // bottom (k-)
	{4, 5}, {5, 6}, {6, 7}, {7, 4}, // top (k+)
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // vertical
}

// HexCornerOffsets maps local corner n to its (i,j,k) offset within the
// element's grid cell. Local corner 0 sits at the cell origin.
var HexCornerOffsets = [NumNodes][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// FaceLocalNodes returns the local corner indices of the given face.
func FaceLocalNodes(face int) [NodesPerFace]int {
	if face < 0 || face >= NumFaces {
		return [NodesPerFace]int{}
	}
	return hexFaceNodes[face]
}

// EdgeLocalNodes returns the 12 local corner pairs forming the hex edges.
func EdgeLocalNodes() [NumEdges][2]int { return hexEdgeNodes }

// OppositeFace returns the face on the other side of the same axis.
func OppositeFace(face int) int {
	if face%2 == 0 {
		return face + 1
	}
	return face - 1
}

// FaceAxis returns the lattice axis a face moves along (0=i, 1=j, 2=k).
func FaceAxis(face int) int { return face / 2 }

// FaceDirection returns -1 for minus faces (even index) and +1 for plus faces.
func FaceDirection(face int) int {
	if face%2 == 0 {
		return -1
	}
	return 1
}
