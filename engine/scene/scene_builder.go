package scene

// SceneBuilderOption configures a sceneImpl during NewScene.
type SceneBuilderOption func(*sceneImpl)

// WithStageWorkers sets the number of goroutines used for the parallel
// uniform staging phase. Defaults to NumCPU-1 (minimum 1).
//
// Parameters:
//   - workers: the worker count (ignored if < 1)
//
// Returns:
//   - SceneBuilderOption: the option function
func WithStageWorkers(workers int) SceneBuilderOption {
	return func(s *sceneImpl) {
		if workers >= 1 {
			s.stageWorkers = workers
		}
	}
}
