package exporter

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"gitlab.com/tinyland/lab/hostpulse/collectors/hostmetrics"
	"gitlab.com/tinyland/lab/hostpulse/monitor"
)

const namespace = "hostpulse"

// substitutable lists the metrics that can be carried over from a previous
// tick and are exported as hostpulse_metric_unavailable.
var substitutable = []string{
	hostmetrics.MetricMemory,
	hostmetrics.MetricDisk,
	hostmetrics.MetricNetwork,
	hostmetrics.MetricProcesses,
}

// stateCollector exports the currently published SystemState. It reads the
// state at scrape time, so every scrape sees a single tick.
type stateCollector struct {
	src          StateReader
	topProcesses int

	ticks       *prometheus.Desc
	cpu         *prometheus.Desc
	memory      *prometheus.Desc
	disk        *prometheus.Desc
	netSent     *prometheus.Desc
	netRecv     *prometheus.Desc
	processes   *prometheus.Desc
	unavailable *prometheus.Desc
	procCPU     *prometheus.Desc
	procMem     *prometheus.Desc
}

func newStateCollector(src StateReader, topProcesses int) *stateCollector {
	return &stateCollector{
		src:          src,
		topProcesses: topProcesses,
		ticks: prometheus.NewDesc(namespace+"_ticks_total",
			"Number of sampler ticks published.", nil, nil),
		cpu: prometheus.NewDesc(namespace+"_cpu_percent",
			"System-wide CPU utilization.", nil, nil),
		memory: prometheus.NewDesc(namespace+"_memory_percent",
			"Used virtual memory.", nil, nil),
		disk: prometheus.NewDesc(namespace+"_disk_percent",
			"Used space of the monitored filesystem.", nil, nil),
		netSent: prometheus.NewDesc(namespace+"_network_sent_bytes_total",
			"Bytes sent across all interfaces.", nil, nil),
		netRecv: prometheus.NewDesc(namespace+"_network_received_bytes_total",
			"Bytes received across all interfaces.", nil, nil),
		processes: prometheus.NewDesc(namespace+"_processes",
			"Number of processes in the current snapshot.", nil, nil),
		unavailable: prometheus.NewDesc(namespace+"_metric_unavailable",
			"1 when the metric value was carried over from an earlier tick.", []string{"metric"}, nil),
		procCPU: prometheus.NewDesc(namespace+"_process_cpu_percent",
			"CPU utilization of the busiest processes.", []string{"pid", "name"}, nil),
		procMem: prometheus.NewDesc(namespace+"_process_memory_percent",
			"Memory use of the busiest processes.", []string{"pid", "name"}, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *stateCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.ticks
	ch <- c.cpu
	ch <- c.memory
	ch <- c.disk
	ch <- c.netSent
	ch <- c.netRecv
	ch <- c.processes
	ch <- c.unavailable
	ch <- c.procCPU
	ch <- c.procMem
}

// Collect implements prometheus.Collector. Before the first tick only the
// tick counter is exported.
func (c *stateCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Current()
	ch <- prometheus.MustNewConstMetric(c.ticks, prometheus.CounterValue, float64(s.Tick))
	if s.IsZero() {
		return
	}

	ch <- prometheus.MustNewConstMetric(c.cpu, prometheus.GaugeValue, s.CPUPercent)
	ch <- prometheus.MustNewConstMetric(c.memory, prometheus.GaugeValue, s.RAMPercent)
	ch <- prometheus.MustNewConstMetric(c.disk, prometheus.GaugeValue, s.DiskPercent)
	ch <- prometheus.MustNewConstMetric(c.netSent, prometheus.CounterValue, float64(s.NetSentBytes))
	ch <- prometheus.MustNewConstMetric(c.netRecv, prometheus.CounterValue, float64(s.NetRecvBytes))
	ch <- prometheus.MustNewConstMetric(c.processes, prometheus.GaugeValue, float64(len(s.Processes)))

	for _, metric := range substitutable {
		v := 0.0
		if s.IsUnavailable(metric) {
			v = 1
		}
		ch <- prometheus.MustNewConstMetric(c.unavailable, prometheus.GaugeValue, v, metric)
	}

	if c.topProcesses <= 0 {
		return
	}
	for _, p := range monitor.SortProcesses(s.Processes, monitor.SortByCPU, c.topProcesses) {
		pid := strconv.FormatInt(int64(p.PID), 10)
		// Process names are set by their owners and need not be UTF-8,
		// which label values must be.
		name := strings.ToValidUTF8(p.Name, "\uFFFD")
		ch <- prometheus.MustNewConstMetric(c.procCPU, prometheus.GaugeValue, p.CPUPercent, pid, name)
		ch <- prometheus.MustNewConstMetric(c.procMem, prometheus.GaugeValue, p.MemPercent, pid, name)
	}
}
