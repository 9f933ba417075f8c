package session

import "github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/plant"

// Selection joins the selected plant's summary with its detail points.
type Selection struct {
	// Summary is nil when nothing is selected or the selected plant is not in
	// the current poll.
	Summary *plant.Summary
	Details []plant.DetailPoint
}

// GetSelection resolves the selected plant against st. It never fails: a
// selection that matches nothing yields a nil Summary and empty Details.
func GetSelection(st State) Selection {
	sel := Selection{Details: []plant.DetailPoint{}}
	if st.SelectedPlantID == "" {
		return sel
	}

	for i := range st.Summaries {
		if st.Summaries[i].ID == st.SelectedPlantID {
			summary := st.Summaries[i]
			sel.Summary = &summary
			break
		}
	}
	for _, d := range st.Details {
		if d.PlantID == st.SelectedPlantID {
			sel.Details = append(sel.Details, d)
		}
	}
	return sel
}

// Selection is shorthand for GetSelection(s).
func (s State) Selection() Selection {
	return GetSelection(s)
}

// SelectedIndex returns the position of the selected plant in Summaries, or -1.
func (s State) SelectedIndex() int {
	for i := range s.Summaries {
		if s.Summaries[i].ID == s.SelectedPlantID {
			return i
		}
	}
	return -1
}
