package graph

// SimplePaths 枚举 from 到 to 的所有简单路径（不重复经过节点），
// 跳数不超过 maxHops，以此约束稠密图上的枚举成本
func (g *Graph) SimplePaths(from, to string, maxHops int) [][]string {
	if !g.nodeSet[from] || !g.nodeSet[to] || from == to {
		return nil
	}
	var paths [][]string
	visited := map[string]bool{from: true}
	g.dfs(from, to, maxHops, []string{from}, visited, &paths)
	return paths
}

func (g *Graph) dfs(cur, to string, hopsLeft int, path []string, visited map[string]bool, paths *[][]string) {
	if hopsLeft == 0 {
		return
	}
	for _, next := range g.out[cur] {
		if next == to {
			found := make([]string, len(path), len(path)+1)
			copy(found, path)
			*paths = append(*paths, append(found, to))
			continue
		}
		if visited[next] {
			continue
		}
		visited[next] = true
		g.dfs(next, to, hopsLeft-1, append(path, next), visited, paths)
		visited[next] = false
	}
}

// Chains 关系链：对每个有序表对，取两者之间最长的简单路径（并列全保留），
// 只保留跨越 3 张表以上的链
func (g *Graph) Chains(maxHops int) [][]string {
	var chains [][]string
	for _, src := range g.nodes {
		for _, dst := range g.nodes {
			if src == dst {
				continue
			}
			paths := g.SimplePaths(src, dst, maxHops)
			if len(paths) == 0 {
				continue
			}
			maxLen := 0
			for _, p := range paths {
				if len(p) > maxLen {
					maxLen = len(p)
				}
			}
			if maxLen < 3 {
				continue
			}
			for _, p := range paths {
				if len(p) == maxLen {
					chains = append(chains, p)
				}
			}
		}
	}
	return chains
}
