// Package rank orders candidate update records by relevance to a structured query.
//
// Each record earns points for keyword hits in its title, summary and impact,
// and for matching the query's products, severity and source. Recent records
// get a bonus. The total is divided by the best score the query allows, so
// relevance always lies in [0, 1].
package rank
