package mock

//go:generate go run go.uber.org/mock/mockgen -package mock -destination aliases.go github.com/buildbarn/bb-zonestore/internal/mock/aliases UUIDGenerator
//go:generate go run go.uber.org/mock/mockgen -package mock -destination clock.go github.com/buildbarn/bb-zonestore/pkg/clock Clock
//go:generate go run go.uber.org/mock/mockgen -package mock -destination util.go github.com/buildbarn/bb-zonestore/pkg/util ErrorLogger
//go:generate go run go.uber.org/mock/mockgen -package mock -destination zone.go github.com/buildbarn/bb-zonestore/pkg/zone Device
