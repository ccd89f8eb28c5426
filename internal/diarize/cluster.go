package diarize

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrDegenerateEmbeddings indicates clustering input that cannot be grouped,
// such as all-zero vectors.
var ErrDegenerateEmbeddings = errors.New("diarize: degenerate embeddings")

// clusterEmbeddings groups embeddings bottom-up with average-linkage cosine
// distance. Merging stops once the closest pair is farther apart than
// distanceThreshold, then continues regardless of distance while the cluster
// count exceeds maxClusters. Returned labels index clusters by first
// appearance, so label 0 always covers the earliest window.
func clusterEmbeddings(embeddings [][]float64, distanceThreshold float64, maxClusters int) ([]int, error) {
	n := len(embeddings)
	if n == 0 {
		return nil, nil
	}
	if n == 1 {
		return []int{0}, nil
	}

	nonzero := 0
	for _, e := range embeddings {
		if floats.Norm(e, 2) > 0 {
			nonzero++
		}
	}
	if nonzero == 0 {
		return nil, ErrDegenerateEmbeddings
	}

	// members[i] holds the embedding indexes of cluster i; merged clusters
	// are marked nil.
	members := make([][]int, n)
	for i := range members {
		members[i] = []int{i}
	}
	active := n

	for active > 1 {
		bestA, bestB := -1, -1
		bestDist := math.Inf(1)
		for a := 0; a < n; a++ {
			if members[a] == nil {
				continue
			}
			for b := a + 1; b < n; b++ {
				if members[b] == nil {
					continue
				}
				d := averageLinkage(embeddings, members[a], members[b])
				if d < bestDist {
					bestDist = d
					bestA, bestB = a, b
				}
			}
		}
		if bestA < 0 {
			break
		}
		if bestDist > distanceThreshold && (maxClusters <= 0 || active <= maxClusters) {
			break
		}
		members[bestA] = append(members[bestA], members[bestB]...)
		members[bestB] = nil
		active--
	}

	return assignLabels(members, n), nil
}

// mergeSimilarClusters collapses clusters whose centroid cosine similarity
// exceeds the threshold. It counters over-segmentation of a single speaker
// into several clusters.
func mergeSimilarClusters(embeddings [][]float64, labels []int, similarityThreshold float64) []int {
	clusters := make(map[int][]int)
	for i, label := range labels {
		clusters[label] = append(clusters[label], i)
	}
	if len(clusters) <= 1 {
		return labels
	}

	centroids := make(map[int][]float64, len(clusters))
	for label, idxs := range clusters {
		centroids[label] = centroid(embeddings, idxs)
	}

	// Union-find over cluster labels.
	parent := make(map[int]int, len(clusters))
	for label := range clusters {
		parent[label] = label
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}

	labelList := make([]int, 0, len(clusters))
	for label := range clusters {
		labelList = append(labelList, label)
	}
	for i := 0; i < len(labelList); i++ {
		for j := i + 1; j < len(labelList); j++ {
			a, b := labelList[i], labelList[j]
			if cosineSimilarity(centroids[a], centroids[b]) > similarityThreshold {
				parent[find(b)] = find(a)
			}
		}
	}

	merged := make([]int, len(labels))
	for i, label := range labels {
		merged[i] = find(label)
	}

	// Renumber by first appearance.
	next := 0
	remap := make(map[int]int)
	for i, label := range merged {
		if _, ok := remap[label]; !ok {
			remap[label] = next
			next++
		}
		merged[i] = remap[label]
	}
	return merged
}

func averageLinkage(embeddings [][]float64, a, b []int) float64 {
	var sum float64
	for _, i := range a {
		for _, j := range b {
			sum += cosineDistance(embeddings[i], embeddings[j])
		}
	}
	return sum / float64(len(a)*len(b))
}

func centroid(embeddings [][]float64, idxs []int) []float64 {
	out := make([]float64, len(embeddings[idxs[0]]))
	for _, i := range idxs {
		floats.Add(out, embeddings[i])
	}
	floats.Scale(1/float64(len(idxs)), out)
	return out
}

func cosineSimilarity(a, b []float64) float64 {
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

func cosineDistance(a, b []float64) float64 {
	return 1 - cosineSimilarity(a, b)
}

// assignLabels flattens surviving clusters into per-embedding labels numbered
// by first appearance in time order, so label 0 always covers the earliest
// window.
func assignLabels(members [][]int, n int) []int {
	labels := make([]int, n)
	next := 0
	for _, cluster := range members {
		if cluster == nil {
			continue
		}
		for _, idx := range cluster {
			labels[idx] = next
		}
		next++
	}

	remap := make(map[int]int)
	out := make([]int, n)
	count := 0
	for i, label := range labels {
		if _, ok := remap[label]; !ok {
			remap[label] = count
			count++
		}
		out[i] = remap[label]
	}
	return out
}
