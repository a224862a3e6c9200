package tableau

import "github.com/aaearon/tabrotate/internal/tableau/models"

// Group partitions connections by (server address, port, username).
// Data source connections are visited before workbook connections, each in
// asset-then-connection order, and groups are numbered 1..K in first-seen
// order. Keys compare literally: an empty username is its own value.
func Group(dataSources, workbooks []models.Asset) []models.ConnectionGroup {
	groups := []models.ConnectionGroup{}
	index := make(map[models.GroupKey]int)

	add := func(c models.Connection, parentType models.ParentType) {
		key := c.Key()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, models.ConnectionGroup{ID: i + 1, Key: key})
		}

		g := &groups[i]
		g.Members = append(g.Members, c)
		switch parentType {
		case models.ParentDataSource:
			g.DataSourceCount++
		case models.ParentWorkbook:
			g.WorkbookCount++
		}
	}

	for _, ds := range dataSources {
		for _, c := range ds.Connections {
			add(c, models.ParentDataSource)
		}
	}
	for _, wb := range workbooks {
		for _, c := range wb.Connections {
			add(c, models.ParentWorkbook)
		}
	}

	return groups
}

// GroupInventory groups the assets of an enumeration result.
func GroupInventory(inv *models.Inventory) []models.ConnectionGroup {
	if inv == nil {
		return []models.ConnectionGroup{}
	}
	return Group(inv.DataSources, inv.Workbooks)
}
