package port

import "github.com/shinji-kodama/port-for/internal/model"

// unassignedTable lists the port ranges that the IANA Service Name and
// Transport Protocol Port Number Registry leaves unassigned below the
// dynamic range (49152-65535). Ports in these bands are not claimed by
// any registered service, so a locally persisted reservation is unlikely
// to collide with software installed later.
//
// The entries are sorted, disjoint and non-adjacent. Changing them
// changes which ports new bindings may receive, but never invalidates
// reservations that are already stored.
var unassignedTable = [...][2]int{
	{1490, 1490}, {2194, 2196}, {2259, 2259}, {2369, 2369}, {2378, 2378},
	{2693, 2693}, {2794, 2794}, {2873, 2873}, {3092, 3092}, {3126, 3126},
	{3301, 3301}, {3546, 3546}, {3694, 3694}, {3994, 3994}, {4048, 4048},
	{4144, 4144}, {4194, 4196}, {4315, 4315}, {4317, 4319}, {4332, 4332},
	{4337, 4339}, {4363, 4365}, {4367, 4367}, {4380, 4388}, {4397, 4399},
	{4424, 4424}, {4434, 4440}, {4459, 4483}, {4489, 4499}, {4501, 4501},
	{4503, 4533}, {4539, 4544}, {4560, 4562}, {4564, 4565}, {4571, 4572},
	{4574, 4589}, {4606, 4620}, {4647, 4657}, {4693, 4699}, {4705, 4710},
	{4712, 4724}, {4746, 4746}, {4748, 4748}, {4754, 4783}, {4792, 4799},
	{4805, 4826}, {4828, 4836}, {4852, 4868}, {4872, 4875}, {4886, 4887},
	{4890, 4893}, {4895, 4898}, {4903, 4911}, {4916, 4935}, {4938, 4939},
	{4943, 4948}, {4954, 4968}, {4972, 4979}, {4981, 4983}, {4992, 4998},
	{5016, 5019}, {5035, 5041}, {5076, 5077}, {5088, 5089}, {5095, 5098},
	{5108, 5110}, {5113, 5113}, {5118, 5119}, {5125, 5132}, {5138, 5144},
	{5147, 5149}, {5158, 5160}, {5169, 5171}, {5173, 5189}, {5198, 5199},
	{5204, 5208}, {5210, 5214}, {5216, 5220}, {5238, 5241}, {5255, 5263},
	{5266, 5268}, {5273, 5279}, {5283, 5297}, {5311, 5311}, {5319, 5319},
	{5322, 5342}, {5345, 5348}, {5365, 5396}, {5438, 5442}, {5444, 5444},
	{5446, 5449}, {5451, 5452}, {5466, 5469}, {5476, 5499}, {5508, 5549},
	{5551, 5552}, {5558, 5564}, {5587, 5596}, {5606, 5617}, {5619, 5626},
	{5640, 5645}, {5647, 5665}, {5667, 5669}, {5685, 5686}, {5690, 5692},
	{5694, 5695}, {5697, 5712}, {5731, 5740}, {5749, 5749}, {5751, 5754},
	{5756, 5756}, {5758, 5765}, {5772, 5776}, {5778, 5779}, {5788, 5792},
	{5795, 5799}, {5801, 5812}, {5815, 5840}, {5843, 5858}, {5860, 5862},
	{5864, 5867}, {5869, 5882}, {5884, 5899}, {5901, 5909}, {5914, 5962},
	{5964, 5967}, {5970, 5983}, {5994, 5998}, {6067, 6067}, {6078, 6079},
	{6089, 6098}, {6119, 6120}, {6125, 6129}, {6131, 6132}, {6134, 6139},
	{6150, 6158}, {6164, 6199}, {6202, 6208}, {6210, 6221}, {6223, 6240},
	{6245, 6250}, {6254, 6266}, {6270, 6299}, {6302, 6305}, {6307, 6314},
	{6318, 6319}, {6323, 6323}, {6327, 6342}, {6345, 6345}, {6348, 6349},
	{6351, 6354}, {6356, 6359}, {6361, 6362}, {6364, 6369}, {6371, 6378},
	{6380, 6381}, {6383, 6388}, {6391, 6399}, {6411, 6416}, {6422, 6431},
	{6433, 6441}, {6447, 6454}, {6457, 6463}, {6465, 6470}, {6472, 6479},
	{6490, 6499}, {6504, 6504}, {6512, 6512}, {6516, 6542}, {6545, 6546},
	{6552, 6555}, {6559, 6565}, {6569, 6578}, {6584, 6587}, {6589, 6599},
	{6603, 6618}, {6630, 6631}, {6637, 6639}, {6641, 6652}, {6654, 6654},
	{6658, 6669}, {6674, 6677}, {6680, 6686}, {6691, 6695}, {6698, 6700},
	{6707, 6713}, {6717, 6766}, {6772, 6776}, {6779, 6783}, {6792, 6800},
	{6802, 6816}, {6818, 6830}, {6832, 6840}, {6843, 6849}, {6851, 6867},
	{6869, 6887}, {6889, 6899}, {6902, 6923}, {6925, 6934}, {6937, 6945},
	{6947, 6950}, {6952, 6960}, {6967, 6968}, {6971, 6996}, {7027, 7029},
	{7032, 7039}, {7041, 7069}, {7074, 7079}, {7081, 7094}, {7096, 7098},
	{7102, 7106}, {7108, 7116}, {7118, 7120}, {7122, 7127}, {7130, 7160},
	{7175, 7180}, {7182, 7199}, {7203, 7214}, {7217, 7226}, {7230, 7234},
	{7238, 7243}, {7245, 7261}, {7263, 7271}, {7284, 7364}, {7366, 7390},
	{7398, 7399}, {7403, 7409}, {7412, 7420}, {7422, 7425}, {7432, 7436},
	{7438, 7442}, {7444, 7470}, {7472, 7472}, {7475, 7477}, {7479, 7490},
	{7492, 7499}, {7502, 7507}, {7512, 7541}, {7552, 7559}, {7561, 7562},
	{7564, 7565}, {7567, 7568}, {7571, 7573}, {7575, 7587}, {7589, 7605},
	{7607, 7623}, {7625, 7625}, {7632, 7632}, {7634, 7647}, {7649, 7662},
	{7664, 7671}, {7678, 7679}, {7681, 7682}, {7684, 7686}, {7688, 7688},
	{7690, 7696}, {7698, 7699}, {7702, 7706}, {7709, 7719}, {7721, 7723},
	{7728, 7733}, {7735, 7737}, {7739, 7740}, {7745, 7746}, {7748, 7776},
	{7780, 7780}, {7782, 7785}, {7788, 7788}, {7790, 7793}, {7795, 7796},
	{7803, 7809}, {7811, 7844}, {7848, 7868}, {7873, 7877}, {7879, 7879},
	{7881, 7886}, {7888, 7899}, {7904, 7912}, {7914, 7931}, {7934, 7961},
	{7963, 7966}, {7968, 7978}, {7983, 7996}, {8004, 8004}, {8006, 8006},
	{8009, 8018}, {8023, 8024}, {8027, 8031}, {8035, 8039}, {8045, 8050},
	{8061, 8065}, {8068, 8069}, {8071, 8073}, {8075, 8076}, {8078, 8079},
	{8084, 8085}, {8089, 8090}, {8092, 8096}, {8098, 8099}, {8119, 8120},
	{8123, 8127}, {8133, 8139}, {8141, 8147}, {8150, 8152}, {8154, 8159},
	{8163, 8180}, {8185, 8189}, {8193, 8193}, {8196, 8198}, {8203, 8203},
	{8209, 8229}, {8233, 8242}, {8244, 8269}, {8271, 8275}, {8277, 8279},
	{8281, 8291}, {8295, 8299}, {8302, 8312}, {8314, 8319}, {8323, 8350},
	{8352, 8375}, {8381, 8382}, {8385, 8399}, {8406, 8414}, {8418, 8422},
	{8424, 8441}, {8446, 8449}, {8451, 8456}, {8458, 8469}, {8475, 8499},
	{8504, 8553}, {8556, 8566}, {8568, 8599}, {8601, 8608}, {8616, 8664},
	{8667, 8674}, {8676, 8685}, {8687, 8687}, {8689, 8698}, {8700, 8710},
	{8712, 8731}, {8734, 8749}, {8751, 8762}, {8767, 8769}, {8771, 8777},
	{8779, 8785}, {8788, 8792}, {8794, 8799}, {8801, 8803}, {8806, 8807},
	{8809, 8872}, {8874, 8879}, {8882, 8882}, {8884, 8887}, {8895, 8898},
	{8902, 8907}, {8909, 8910}, {8914, 8936}, {8938, 8952}, {8955, 8988},
	{8992, 8996}, {9003, 9004}, {9012, 9019}, {9027, 9049}, {9052, 9059},
	{9061, 9079}, {9094, 9099}, {9108, 9110}, {9112, 9118}, {9120, 9121},
	{9124, 9130}, {9132, 9159}, {9165, 9190}, {9192, 9199}, {9218, 9221},
	{9223, 9254}, {9256, 9276}, {9288, 9291}, {9296, 9299}, {9307, 9311},
	{9313, 9317}, {9319, 9320}, {9322, 9338}, {9341, 9342}, {9345, 9345},
	{9347, 9373}, {9375, 9379}, {9381, 9386}, {9391, 9395}, {9398, 9399},
	{9403, 9417}, {9419, 9442}, {9446, 9449}, {9451, 9499}, {9501, 9521},
	{9523, 9534}, {9537, 9554}, {9556, 9591}, {9601, 9611}, {9613, 9613},
	{9615, 9615}, {9619, 9627}, {9633, 9639}, {9641, 9665}, {9669, 9693},
	{9696, 9699}, {9701, 9746}, {9748, 9749}, {9751, 9752}, {9754, 9761},
	{9763, 9799}, {9803, 9874}, {9879, 9887}, {9890, 9897}, {9904, 9908},
	{9910, 9910}, {9912, 9924}, {9926, 9949}, {9957, 9965}, {9967, 9977},
	{9980, 9980}, {9982, 9986}, {9989, 9989}, {9991, 9998}, {10011, 10019},
	{10021, 10022}, {10024, 10049}, {10052, 10054}, {10056, 10079}, {10082, 10099},
	{10105, 10106}, {10108, 10109}, {10112, 10112}, {10118, 10124}, {10126, 10127},
	{10130, 10159}, {10163, 10199}, {10202, 10251}, {10254, 10259}, {10262, 10287},
	{10289, 10320}, {10322, 10438}, {10440, 10442}, {10444, 10499}, {10501, 10539},
	{10545, 10547}, {10549, 10630}, {10632, 10799}, {10801, 10804}, {10806, 10808},
	{10811, 10859}, {10861, 10879}, {10881, 10932}, {10934, 10989}, {10991, 10999},
	{11002, 11094}, {11096, 11102}, {11113, 11160}, {11166, 11170}, {11176, 11200},
	{11203, 11207}, {11209, 11210}, {11212, 11318}, {11322, 11366}, {11368, 11370},
	{11372, 11429}, {11431, 11488}, {11490, 11599}, {11601, 11622}, {11624, 11719},
	{11721, 11722}, {11724, 11750}, {11752, 11795}, {11797, 11875}, {11878, 11966},
	{11968, 11970}, {11972, 11996}, {12014, 12108}, {12110, 12120}, {12122, 12167},
	{12169, 12171}, {12173, 12299}, {12303, 12320}, {12323, 12344}, {12346, 12752},
	{12754, 12864}, {12866, 13159}, {13161, 13215}, {13219, 13222}, {13225, 13399},
	{13401, 13719}, {13723, 13723}, {13725, 13781}, {13784, 13784}, {13787, 13817},
	{13824, 13893}, {13895, 13928}, {13931, 13999}, {14003, 14032}, {14035, 14140},
	{14144, 14144}, {14146, 14148}, {14151, 14153}, {14155, 14249}, {14251, 14413},
	{14415, 14499}, {14501, 14935}, {14938, 14999}, {15001, 15001}, {15003, 15117},
	{15119, 15344}, {15346, 15362}, {15364, 15554}, {15557, 15659}, {15661, 15739},
	{15741, 15997}, {16004, 16019}, {16022, 16160}, {16163, 16308}, {16312, 16359},
	{16362, 16366}, {16369, 16383}, {16386, 16618}, {16620, 16664}, {16667, 16788},
	{16790, 16899}, {16901, 16949}, {16951, 16990}, {16996, 17006}, {17008, 17183},
	{17186, 17218}, {17226, 17233}, {17236, 17499}, {17501, 17554}, {17556, 17728},
	{17730, 17753}, {17757, 17776}, {17778, 17999}, {18001, 18103}, {18105, 18135},
	{18137, 18180}, {18188, 18240}, {18244, 18261}, {18263, 18462}, {18464, 18515},
	{18517, 18633}, {18636, 18667}, {18669, 18768}, {18770, 18880}, {18882, 18887},
	{18889, 18999}, {19001, 19006}, {19008, 19019}, {19021, 19190}, {19192, 19193},
	{19195, 19219}, {19221, 19282}, {19284, 19314}, {19316, 19397}, {19399, 19409},
	{19413, 19538}, {19542, 19787}, {19789, 19811}, {19815, 19997}, {20004, 20004},
	{20006, 20011}, {20015, 20033}, {20035, 20045}, {20047, 20047}, {20050, 20056},
	{20058, 20166}, {20168, 20201}, {20203, 20221}, {20223, 20479}, {20481, 20669},
	{20671, 20998}, {21001, 21009}, {21011, 21211}, {21222, 21552}, {21555, 21589},
	{21591, 21799}, {21801, 21844}, {21850, 21999}, {22006, 22124}, {22126, 22127},
	{22129, 22221}, {22223, 22272}, {22274, 22304}, {22306, 22334}, {22336, 22342},
	{22344, 22346}, {22348, 22349}, {22352, 22536}, {22538, 22554}, {22556, 22762},
	{22764, 22799}, {22801, 22950}, {22952, 22999}, {23006, 23052}, {23054, 23271},
	{23273, 23293}, {23295, 23332}, {23334, 23399}, {23403, 23455}, {23458, 23545},
	{23547, 23999}, {24007, 24241}, {24243, 24248}, {24250, 24320}, {24323, 24385},
	{24387, 24464}, {24466, 24553}, {24555, 24576}, {24578, 24675}, {24679, 24679},
	{24681, 24753}, {24755, 24849}, {24851, 24921}, {24923, 24999}, {25010, 25470},
	{25472, 25575}, {25577, 25603}, {25605, 25792}, {25794, 25899}, {25904, 25953},
	{25956, 25999}, {26001, 26132}, {26134, 26207}, {26209, 26256}, {26258, 26259},
	{26265, 26485}, {26488, 26488}, {26490, 26999}, {27010, 27016}, {27018, 27344},
	{27346, 27441}, {27443, 27503}, {27505, 27781}, {27783, 27875}, {27877, 27998},
	{28002, 28009}, {28011, 28079}, {28081, 28118}, {28120, 28199}, {28201, 28239},
	{28241, 29117}, {29119, 29166}, {29170, 29998}, {30005, 30099}, {30101, 30259},
	{30261, 30563}, {30565, 30831}, {30833, 30998}, {31000, 31015}, {31017, 31019},
	{31021, 31028}, {31030, 31399}, {31401, 31415}, {31417, 31456}, {31458, 31619},
	{31621, 31684}, {31686, 31764}, {31766, 31947}, {31950, 32033}, {32035, 32248},
	{32250, 32482}, {32484, 32634}, {32637, 32766}, {32778, 32800}, {32812, 32895},
	{32897, 33059}, {33061, 33122}, {33124, 33330}, {33332, 33332}, {33335, 33433},
	{33436, 33655}, {33657, 34248}, {34250, 34377}, {34380, 34566}, {34568, 34961},
	{34965, 34979}, {34981, 34999}, {35007, 35353}, {35358, 36000}, {36002, 36410},
	{36413, 36421}, {36425, 36442}, {36445, 36461}, {36463, 36523}, {36525, 36601},
	{36603, 36699}, {36701, 36864}, {36866, 37474}, {37476, 37482}, {37484, 37600},
	{37602, 37653}, {37655, 37999}, {38003, 38200}, {38204, 38411}, {38413, 38421},
	{38423, 38461}, {38463, 38471}, {38473, 38799}, {38801, 38864}, {38866, 39680},
	{39682, 39999}, {40001, 40022}, {40024, 40403}, {40405, 40840}, {40844, 40852},
	{40854, 41110}, {41112, 41120}, {41122, 41229}, {41231, 41793}, {41798, 42507},
	{42511, 42999}, {43001, 44320}, {44323, 44443}, {44446, 44543}, {44545, 44552},
	{44554, 44599}, {44601, 44817}, {44819, 44899}, {44901, 44999}, {45003, 45044},
	{45046, 45053}, {45055, 45513}, {45515, 45677}, {45679, 45823}, {45826, 45965},
	{45967, 46335}, {46337, 46997}, {47002, 47099}, {47101, 47556}, {47558, 47623},
	{47625, 47805}, {47807, 47807}, {47810, 47999}, {48006, 48048}, {48051, 48127},
	{48130, 48555}, {48557, 48618}, {48620, 48652}, {48654, 49150},
}

// UnassignedRanges returns a copy of the static table of unassigned port
// ranges that forms the starting candidate pool for AvailablePorts.
func UnassignedRanges() []model.Range {
	ranges := make([]model.Range, 0, len(unassignedTable))
	for _, r := range unassignedTable {
		ranges = append(ranges, model.Range{Low: r[0], High: r[1]})
	}
	return ranges
}
