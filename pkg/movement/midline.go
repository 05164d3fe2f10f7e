package movement

// IncisorCorrection returns the incisor movement that cancels a dental
// midline offset one to one.
func IncisorCorrection(dentalMidlineOffset float64) float64 {
	// 0 - x rather than -x so a centred midline yields +0.
	return 0 - dentalMidlineOffset
}
