package aggregate

import "go-safetyboard/types"

// MatrixCauses is the cause axis. Causes outside it are counted under "기타".
var MatrixCauses = []string{"시공오류", types.Other, "설계오류"}

// MatrixResults is the result axis. Results outside it are left out of the matrix.
var MatrixResults = []string{"끼임", "넘어짐", "떨어짐", "부딪힘", "물체에맞음", "절단베임", types.Other}

var matrixResultLabels = map[string]string{"절단베임": "베임"}

// CauseResultMatrix cross-tabulates main cause against main result. Cells are
// sparse and appear in the order their first incident was seen.
func CauseResultMatrix(incidents []types.Incident) types.CauseResultMatrix {
	causeIdx := indexOf(MatrixCauses)
	resultIdx := indexOf(MatrixResults)

	m := types.CauseResultMatrix{Cells: []types.MatrixCell{}}
	cellIdx := make(map[[2]int]int)

	for _, inc := range incidents {
		x, ok := causeIdx[inc.CauseMain]
		if !ok {
			x = causeIdx[types.Other]
		}
		y, ok := resultIdx[inc.ResultMain]
		if !ok {
			continue
		}

		key := [2]int{x, y}
		i, ok := cellIdx[key]
		if !ok {
			i = len(m.Cells)
			cellIdx[key] = i
			result := MatrixResults[y]
			label, relabeled := matrixResultLabels[result]
			if !relabeled {
				label = result
			}
			m.Cells = append(m.Cells, types.MatrixCell{
				Cause:       MatrixCauses[x],
				Result:      result,
				ResultLabel: label,
				X:           x,
				Y:           y,
			})
		}

		m.Cells[i].Count++
		if m.Cells[i].Count > m.MaxCount {
			m.MaxCount = m.Cells[i].Count
		}
	}
	return m
}

func indexOf(vocab []string) map[string]int {
	idx := make(map[string]int, len(vocab))
	for i, v := range vocab {
		idx[v] = i
	}
	return idx
}
