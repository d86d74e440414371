package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	userCreations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postboard_user_creations_total",
			Help: "User creation attempts by outcome",
		},
		[]string{"outcome"},
	)

	postDeletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postboard_post_deletions_total",
			Help: "Post deletion attempts by outcome",
		},
		[]string{"outcome"},
	)
)
