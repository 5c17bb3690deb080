package channels

import (
	"sync"

	"github.com/AbdulWasayUl/go-weather-bot/models"
)

type Channels struct {
	Jobs chan models.Job
	WG   *sync.WaitGroup
}

func New() *Channels {
	const bufferSize = 100
	return &Channels{
		Jobs: make(chan models.Job, bufferSize),
		WG:   &sync.WaitGroup{},
	}
}
