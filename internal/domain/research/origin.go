package research

// Origin records which side owns a row: the batch pipeline, which may
// freely rewrite or delete what it created, or a researcher, whose rows
// the import engine must never mutate. Keep this a closed set; every
// consumer switches exhaustively over it.
type Origin string

const (
	OriginPipeline   Origin = "pipeline"
	OriginResearcher Origin = "researcher"
)

func (o Origin) Valid() bool {
	switch o {
	case OriginPipeline, OriginResearcher:
		return true
	default:
		return false
	}
}
