package assetsearch

// buildSearchQuery assembles the bool query for the asset index. Free
// text goes into must, the structured filters into filter, so scoring
// only reflects the text match.
func buildSearchQuery(input *Input) map[string]interface{} {
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if input.Query != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  input.Query,
				"fields": []string{"description^2", "assetType", "location"},
				"type":   "best_fields",
			},
		})
	}

	if input.AssetType != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"assetType": input.AssetType},
		})
	}
	if input.UserID != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"userId": input.UserID},
		})
	}
	if input.VerificationStatus != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"verificationStatus": input.VerificationStatus},
		})
	}

	if input.MinValue != nil || input.MaxValue != nil {
		rangeBody := map[string]interface{}{}
		if input.MinValue != nil {
			rangeBody["gte"] = *input.MinValue
		}
		if input.MaxValue != nil {
			rangeBody["lte"] = *input.MaxValue
		}
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{"estimatedValue": rangeBody},
		})
	}

	boolQuery := map[string]interface{}{}
	if len(mustClauses) > 0 {
		boolQuery["must"] = mustClauses
	} else {
		boolQuery["must"] = []interface{}{
			map[string]interface{}{"match_all": map[string]interface{}{}},
		}
	}
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
	}
	// Relevance order for text queries, recency otherwise.
	if input.Query == "" {
		body["sort"] = []interface{}{
			map[string]interface{}{"createdAt": map[string]interface{}{"order": "desc", "unmapped_type": "date"}},
		}
	}
	return body
}
