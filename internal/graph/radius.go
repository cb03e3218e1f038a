package graph

// SystemsWithinRadiusMinSecurity returns systems reachable within maxJumps,
// mapped to their distance in jumps, where every system on the path has
// security >= minSecurity. Use minSecurity <= -1 for no filter.
func (u *Universe) SystemsWithinRadiusMinSecurity(origin int32, maxJumps int, minSecurity float64) map[int32]int {
	result := make(map[int32]int)
	result[origin] = 0

	queue := []int32{origin}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		dist := result[current]
		if dist >= maxJumps {
			continue
		}
		for _, neighbor := range u.Adj[current] {
			if minSecurity > -1 {
				if sec, ok := u.SystemSecurity[neighbor]; !ok || sec < minSecurity {
					continue
				}
			}
			if _, visited := result[neighbor]; !visited {
				result[neighbor] = dist + 1
				queue = append(queue, neighbor)
			}
		}
	}
	return result
}
