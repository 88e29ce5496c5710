// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package guide

import "superguide/internal/models"

// Group is a run of resources sharing a category label.
type Group struct {
	Category  string            `json:"category"`
	Resources []models.Resource `json:"resources"`
}

// GroupByCategory partitions resources by category label, keeping groups
// in first-seen order and resources in input order within each group.
// Resources without a category fall under "Uncategorized".
func GroupByCategory(resources []models.Resource) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, r := range resources {
		label := r.Category
		if label == "" {
			label = "Uncategorized"
		}
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group{Category: label})
		}
		groups[i].Resources = append(groups[i].Resources, r)
	}
	return groups
}
