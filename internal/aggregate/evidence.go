package aggregate

import (
	"sort"
	"time"

	"trac/internal/database/mongodb/model"
)

const maxClusterImages = 5

// EvidenceCluster 一段 time entry 與落在其時間範圍內的截圖
type EvidenceCluster struct {
	Entry  model.TimeEntry    `json:"entry"`
	Images []model.Screenshot `json:"images"`
}

// ClusterEvidence 每段最多 5 張，新到舊；缺少起訖時間視為 Unix epoch
func ClusterEvidence(entries []model.TimeEntry, screenshots []model.Screenshot) []EvidenceCluster {
	sorted := make([]model.Screenshot, len(screenshots))
	copy(sorted, screenshots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	clusters := make([]EvidenceCluster, 0, len(entries))
	for _, entry := range entries {
		start, end := timeOrEpoch(entry.StartTime), timeOrEpoch(entry.EndTime)
		images := []model.Screenshot{}
		for _, shot := range sorted {
			if len(images) == maxClusterImages {
				break
			}
			ts := shot.Timestamp
			if ts.IsZero() {
				ts = time.Unix(0, 0)
			}
			if !ts.Before(start) && !ts.After(end) {
				images = append(images, shot)
			}
		}
		clusters = append(clusters, EvidenceCluster{Entry: entry, Images: images})
	}
	return clusters
}

func timeOrEpoch(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return time.Unix(0, 0)
	}
	return *t
}
