package dataset

// Info is a quick pre-validation summary of a dataset: file counts per
// split plus the declared class names.
type Info struct {
	TrainImages int
	ValImages   int
	TrainLabels int
	ValLabels   int
	Classes     []string
}

// CollectInfo counts the images and labels in each split. Missing
// directories count as zero.
func CollectInfo(l Layout, classes []string) Info {
	return Info{
		TrainImages: len(l.ListImages(SplitTrain)),
		ValImages:   len(l.ListImages(SplitVal)),
		TrainLabels: len(l.ListLabels(SplitTrain)),
		ValLabels:   len(l.ListLabels(SplitVal)),
		Classes:     classes,
	}
}
