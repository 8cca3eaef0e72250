package ingredients

// Group is a top-level ingredient component with its declared percent and
// its immediate sub-ingredients in label order.
type Group struct {
	Name    string   `json:"group" bson:"group"`
	Percent float64  `json:"percent" bson:"percent"`
	Sub     []string `json:"sub" bson:"sub"`
}

// Record is the parsed ingredient declaration of one product.
type Record []Group

// Assemble packages groups into a Record without reordering or rewriting them.
func Assemble(groups []Group) Record {
	record := make(Record, 0, len(groups))
	for _, g := range groups {
		if g.Sub == nil {
			g.Sub = []string{}
		}
		record = append(record, g)
	}
	return record
}
