package report

import (
	"fmt"
	"io"

	"github.com/gsea-project/gsea-bench/pkg/bench"
	"github.com/olekukonko/tablewriter"
)

// PrintSummary renders a human-readable digest of a benchmark run: overall
// counts, per-combination averages, and the best performers.
func PrintSummary(w io.Writer, records []bench.RunRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No results to summarize")
		return
	}

	total := len(records)
	successful, leaks, zombies := 0, 0, 0
	for _, r := range records {
		if r.ExitCode == 0 {
			successful++
		}
		if r.LeaksDetected {
			leaks++
		}
		if r.ZombiesDetected {
			zombies++
		}
	}

	fmt.Fprintf(w, "Total tests: %d\n", total)
	fmt.Fprintf(w, "Successful: %d (%.1f%%)\n", successful, float64(successful)/float64(total)*100)
	fmt.Fprintf(w, "Failed: %d\n", total-successful)
	fmt.Fprintf(w, "Memory leaks detected: %d\n", leaks)
	fmt.Fprintf(w, "Zombie processes detected: %d\n\n", zombies)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Compression", "Encryption", "Avg Time (s)", "Avg CPU (%)", "Avg Mem (MB)", "Avg Ratio (%)", "Avg MB/s"})

	for _, agg := range aggregate(records) {
		table.Append([]string{
			string(agg.compression),
			string(agg.encryption),
			fmt.Sprintf("%.2f", agg.timeSeconds),
			fmt.Sprintf("%.1f", agg.cpuPercent),
			fmt.Sprintf("%.1f", agg.memoryMB),
			fmt.Sprintf("%.1f", agg.ratio),
			fmt.Sprintf("%.2f", agg.throughput),
		})
	}
	table.Render()

	fastest := records[0]
	bestRatio := records[0]
	bestThroughput := records[0]
	for _, r := range records[1:] {
		if r.TimeSeconds < fastest.TimeSeconds {
			fastest = r
		}
		if r.CompressionRatio > bestRatio.CompressionRatio {
			bestRatio = r
		}
		if r.ThroughputMBPS > bestThroughput.ThroughputMBPS {
			bestThroughput = r
		}
	}

	fmt.Fprintf(w, "\nFastest: %s+%s (%.2fs)\n", fastest.Compression, fastest.Encryption, fastest.TimeSeconds)
	fmt.Fprintf(w, "Best compression: %s+%s (%.1f%%)\n", bestRatio.Compression, bestRatio.Encryption, bestRatio.CompressionRatio)
	fmt.Fprintf(w, "Highest throughput: %s+%s (%.2f MB/s)\n", bestThroughput.Compression, bestThroughput.Encryption, bestThroughput.ThroughputMBPS)
}

type aggregateRow struct {
	compression bench.CompressionAlgorithm
	encryption  bench.EncryptionAlgorithm
	timeSeconds float64
	cpuPercent  float64
	memoryMB    float64
	ratio       float64
	throughput  float64
}

// aggregate averages records per algorithm pair, preserving first-seen
// order.
func aggregate(records []bench.RunRecord) []aggregateRow {
	type key struct {
		c bench.CompressionAlgorithm
		e bench.EncryptionAlgorithm
	}

	var order []key
	sums := make(map[key]*aggregateRow)
	counts := make(map[key]int)

	for _, r := range records {
		k := key{r.Compression, r.Encryption}
		agg, ok := sums[k]
		if !ok {
			agg = &aggregateRow{compression: r.Compression, encryption: r.Encryption}
			sums[k] = agg
			order = append(order, k)
		}
		agg.timeSeconds += r.TimeSeconds
		agg.cpuPercent += r.CPUPercent
		agg.memoryMB += r.MemoryMB
		agg.ratio += r.CompressionRatio
		agg.throughput += r.ThroughputMBPS
		counts[k]++
	}

	rows := make([]aggregateRow, 0, len(order))
	for _, k := range order {
		agg := sums[k]
		n := float64(counts[k])
		rows = append(rows, aggregateRow{
			compression: agg.compression,
			encryption:  agg.encryption,
			timeSeconds: agg.timeSeconds / n,
			cpuPercent:  agg.cpuPercent / n,
			memoryMB:    agg.memoryMB / n,
			ratio:       agg.ratio / n,
			throughput:  agg.throughput / n,
		})
	}
	return rows
}
