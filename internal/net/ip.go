package net

import (
	"log"
	"net"
)

// OutgoingIP finds the local address a host should put in its share
// link: the interface the default route uses when one exists, else the
// first non-loopback IPv4.
func OutgoingIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return fallbackIP()
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

func fallbackIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		log.Printf("[NET] Could not list interfaces: %v", err)
		return "127.0.0.1"
	}
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String()
		}
	}
	return "127.0.0.1"
}
