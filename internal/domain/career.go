package domain

import "time"

// PersonalityType is reference data describing one of the 16 type codes.
type PersonalityType struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	NameEn        string    `json:"name_en"`
	NameAr        string    `json:"name_ar"`
	DescriptionEn string    `json:"description_en"`
	DescriptionAr string    `json:"description_ar"`
	StrengthsEn   string    `json:"strengths_en"`
	StrengthsAr   string    `json:"strengths_ar"`
	ChallengesEn  string    `json:"challenges_en"`
	ChallengesAr  string    `json:"challenges_ar"`
	CreatedAt     time.Time `json:"created_at"`
}

// Name returns the display name for the requested language.
func (t PersonalityType) Name(language string) string {
	if language == "ar" && t.NameAr != "" {
		return t.NameAr
	}
	return t.NameEn
}

// CareerCluster groups careers into one of the rateable clusters.
type CareerCluster struct {
	ID            string `json:"id"`
	NameEn        string `json:"name_en"`
	NameAr        string `json:"name_ar"`
	DescriptionEn string `json:"description_en"`
	DescriptionAr string `json:"description_ar"`
}

// ClusterRating is a respondent's interest rating for one cluster.
// Ratings are on the 1..5 scale.
type ClusterRating struct {
	SessionID string    `json:"session_id"`
	ClusterID string    `json:"cluster_id"`
	Rating    int       `json:"rating"`
	RatedAt   time.Time `json:"rated_at"`
}

// RequiredClusterRatings is how many clusters must be rated before the
// flow may enter the calculation stage.
const RequiredClusterRatings = 16

// CareerMatch is one row of the personality-career fit matrix joined
// with its career, ready for ranking.
type CareerMatch struct {
	CareerID    string  `json:"career_id"`
	NameEn      string  `json:"name_en"`
	NameAr      string  `json:"name_ar"`
	ClusterID   string  `json:"cluster_id"`
	ClusterEn   string  `json:"cluster_name_en"`
	ClusterAr   string  `json:"cluster_name_ar"`
	SSOCCode    string  `json:"ssoc_code,omitempty"`
	MatchScore  float64 `json:"match_score"`
}
