package api

import (
	"newscourier/app/fetch"
	"newscourier/app/scheduler"
	"newscourier/app/store"
)

type Handler struct {
	store         *store.Store
	fetcher       *fetch.MultiSourceFetcher
	sendScheduler *scheduler.SendScheduler
}
