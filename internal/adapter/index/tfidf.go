package index

import "math"

// vectorSpace is a tf-idf space over one tokenization of the corpus.
// Term frequency is sublinear (1 + ln tf); idf is smoothed so unseen
// terms never divide by zero; document vectors are L2-normalized, so the
// dot product against a normalized query vector is cosine similarity.
type vectorSpace struct {
	vocab map[string]int
	idf   []float64
	docs  []map[int]float64
}

func buildVectorSpace(docTokens [][]string) *vectorSpace {
	vs := &vectorSpace{vocab: make(map[string]int)}

	df := make([]int, 0)
	rawDocs := make([]map[int]int, len(docTokens))

	for i, tokens := range docTokens {
		counts := make(map[int]int, len(tokens))
		for _, tok := range tokens {
			id, ok := vs.vocab[tok]
			if !ok {
				id = len(vs.vocab)
				vs.vocab[tok] = id
				df = append(df, 0)
			}
			counts[id]++
		}
		for id := range counts {
			df[id]++
		}
		rawDocs[i] = counts
	}

	n := float64(len(docTokens))
	vs.idf = make([]float64, len(df))
	for id, d := range df {
		vs.idf[id] = math.Log((1+n)/(1+float64(d))) + 1
	}

	vs.docs = make([]map[int]float64, len(rawDocs))
	for i, counts := range rawDocs {
		vs.docs[i] = vs.weigh(counts)
	}
	return vs
}

// weigh turns raw term counts into an L2-normalized sublinear tf-idf
// vector.
func (vs *vectorSpace) weigh(counts map[int]int) map[int]float64 {
	vec := make(map[int]float64, len(counts))
	var norm float64
	for id, tf := range counts {
		w := (1 + math.Log(float64(tf))) * vs.idf[id]
		vec[id] = w
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for id := range vec {
		vec[id] /= norm
	}
	return vec
}

// similarities returns the cosine similarity of the query tokens against
// every document. Tokens outside the vocabulary are ignored; a query with
// no known tokens scores zero everywhere.
func (vs *vectorSpace) similarities(queryTokens []string) []float64 {
	scores := make([]float64, len(vs.docs))
	if len(vs.vocab) == 0 {
		return scores
	}

	counts := make(map[int]int)
	for _, tok := range queryTokens {
		if id, ok := vs.vocab[tok]; ok {
			counts[id]++
		}
	}
	if len(counts) == 0 {
		return scores
	}
	query := vs.weigh(counts)

	for i, doc := range vs.docs {
		var dot float64
		// Iterate the smaller map.
		if len(query) <= len(doc) {
			for id, qw := range query {
				if dw, ok := doc[id]; ok {
					dot += qw * dw
				}
			}
		} else {
			for id, dw := range doc {
				if qw, ok := query[id]; ok {
					dot += qw * dw
				}
			}
		}
		scores[i] = dot
	}
	return scores
}
