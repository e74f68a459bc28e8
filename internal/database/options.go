package database

const (
	DefaultLimit  = 100
	DefaultOffset = 0
)

type FindOptions struct {
	Limit  int
	Offset int
}

func DefaultFindOptions() FindOptions {
	return FindOptions{
		Limit:  DefaultLimit,
		Offset: DefaultOffset,
	}
}
